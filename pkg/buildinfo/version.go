// Package buildinfo carries version metadata injected at build time via
// ldflags, for example:
//
//	go build -ldflags "-X github.com/matzehuels/reqcheck/pkg/buildinfo.Version=v1.0.0"
package buildinfo

import "fmt"

// Set with -X github.com/matzehuels/reqcheck/pkg/buildinfo.<name>=<value>.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the build information for plain output.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns cobra's version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
