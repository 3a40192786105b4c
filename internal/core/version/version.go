// Package version provides information about the build version of the binaries.
package version

import "fmt"

// BuildInfo holds version information about the build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for service. The version, commit, and date
// variables are set at build time using -ldflags:
//
//	-X 'csv2xml/internal/core/version.version=v0.1.0'
//	-X 'csv2xml/internal/core/version.commit=abcd'
//	-X 'csv2xml/internal/core/version.date=2026-10-01'
func Info(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String renders the build info on one line for -version output.
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", b.Service, b.Version, b.Commit, b.Date)
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
