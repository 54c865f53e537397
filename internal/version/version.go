// Package version holds build metadata injected via ldflags.
package version

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata in one line.
func String() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, Date)
}
