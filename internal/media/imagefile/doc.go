// Package imagefile reads still images into RGBA buffers and encodes
// normalized results as PNG.
//
// PNG and JPEG decoding come from the standard library; BMP, TIFF and WebP
// are registered from golang.org/x/image. JPEG EXIF orientation is honored on
// read via goexif. Raw formats such as DNG are listed by discovery but
// generally fail to decode here and are skipped by the caller.
package imagefile
