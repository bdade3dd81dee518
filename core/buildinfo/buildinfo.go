// Package buildinfo carries version metadata stamped at link time, e.g.
//
//	go build -ldflags "-X github.com/m3rciful/barbot/core/buildinfo.Version=v0.3.0 \
//	  -X github.com/m3rciful/barbot/core/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "local"
	// Date is an RFC3339 build timestamp; empty for local builds.
	Date = ""
)

// String renders "<version> (commit <commit>[, built <date>])".
func String() string {
	if Date == "" {
		return fmt.Sprintf("%s (commit %s)", Version, Commit)
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
