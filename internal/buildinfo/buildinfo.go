package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/randomtoy/oura/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("oura %s (commit=%s, date=%s)", Version, Commit, Date)
}
