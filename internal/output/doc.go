// Package output lays out and writes normalized PNG files.
//
// Each asset lands twice: in a field-scoped tree that mirrors the input
// layout under {w}x{h}_{field}, and in a flat all_{w}_{h} directory shared
// by every field at that resolution.
package output
