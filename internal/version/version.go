// Package version holds build version information.
package version

// Version is overridden at build time via -ldflags.
var Version = "0.3.0-dev"

// Commit is the git commit the binary was built from.
var Commit = "unknown"

// Info returns a human-readable version string.
func Info() string {
	return "telcoassist " + Version + " (" + Commit + ")"
}
