// Package version holds the application version information.
package version

// Version is the current medfind release version.
// It can be overridden at build time with:
//
//	go build -ldflags "-X github.com/vbatista/medfind/internal/version.Version=x.y.z"
var Version = "1.0.0"
