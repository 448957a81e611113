package version

import "strings"

// Version is set at build time using ldflags.
var Version = "0.3.0.dev1"

// GitCommit is set at build time using ldflags.
var GitCommit = "unknown"

// Environment is "development" for dev builds and "production" otherwise.
func Environment() string {
	if strings.Contains(Version, "dev") {
		return "development"
	}
	return "production"
}
