// Package version provides version information for clientsearch.
package version

import "fmt"

// Version is the version of clientsearch. This can be overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash. This can be overridden at build time using ldflags.
var Commit = "unknown"

// String returns the full version string including the commit hash if available.
func String() string {
	if Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}

// UserAgent is the User-Agent header sent to the query API.
func UserAgent() string {
	return fmt.Sprintf("clientsearch/%s", String())
}
