// Package version exposes build-time version information.
package version

// Version is overridden at build time via -ldflags.
var Version = "dev"
