// Package version holds build metadata stamped in at link time via
// -ldflags, e.g.
//
//	go build -ldflags "-X github.com/hmansour/versecrop/version.GitRelease=v1.2.0"
package version

import "runtime"

var (
	// GitRelease is the release tag of this build.
	GitRelease = "dev"

	// GitCommit is the commit hash of this build.
	GitCommit = "unknown"

	// GitCommitDate is the commit date of this build.
	GitCommitDate = "unknown"

	// GoInfo is the Go toolchain the binary was built with.
	GoInfo = runtime.Version()
)
