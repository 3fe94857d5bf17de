// Package geometry holds the pure image transforms of the normalization
// pipeline: aspect-ratio crop, orientation correction, and area-averaging
// resize, applied in that order by Normalize.
//
// Every transform returns a new or shared buffer and never mutates its input.
// Normalizing an already-normalized image with the same validated Options
// returns it unchanged.
package geometry
