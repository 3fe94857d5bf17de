// Package deps checks that the external media tools fieldprep shells out to
// are installed, and reports their versions for the `deps` command.
package deps
