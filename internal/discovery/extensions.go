package discovery

import (
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]struct{}{
	"bmp": {}, "jpg": {}, "jpeg": {}, "png": {}, "tif": {}, "tiff": {}, "dng": {}, "webp": {},
}

var videoExtensions = map[string]struct{}{
	"mov": {}, "avi": {}, "mp4": {}, "mpg": {}, "mpeg": {}, "m4v": {}, "wmv": {}, "mkv": {},
}

// Classify reports the asset kind for name based on its extension, matched
// case-insensitively. ok is false for unrecognized extensions.
func Classify(name string) (Kind, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return "", false
	}
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo, true
	}
	if _, ok := imageExtensions[ext]; ok {
		return KindImage, true
	}
	return "", false
}
