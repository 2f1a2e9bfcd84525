// Package version holds the build version, overridable at link time with
// -ldflags "-X github.com/prajeetp/blackhole-cli/internal/version.Version=...".
package version

var Version = "dev"
