package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// These variables can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/benmeehan/locate/internal/version.Version=v1.2.3 \
//	                   -X github.com/benmeehan/locate/internal/version.Commit=abc123"
var (
	// Version is the semantic version of the application
	Version = "0.0.0-dev"
	// Commit is the git commit hash
	Commit = "unknown"
)

// Semantic returns Version normalized to a semver string without the leading "v".
// A version that does not parse is reported as 0.0.0-invalid.
func Semantic() string {
	v, err := semver.NewVersion(Version)
	if err != nil {
		fallback, _ := semver.NewVersion("0.0.0")
		withPre, preErr := fallback.SetPrerelease("invalid")
		if preErr != nil {
			return fallback.String()
		}
		return withPre.String()
	}
	return v.String()
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Semantic(), Commit)
}
