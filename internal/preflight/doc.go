// Package preflight provides readiness checks for the filesystem paths and
// media tools a fieldprep run depends on.
//
// The run command calls RunAll before discovery so a missing input root or
// an absent ffmpeg fails fast instead of producing a skip for every asset.
// Each check returns a Result; Failed folds the failures into one error.
package preflight
