// Package nemamap keeps version information of the project.
package nemamap

var (
	// Version of nemamap, set by build flags.
	Version = "v0.1.0"

	// Build timestamp, set by build flags.
	Build = "n/a"
)
