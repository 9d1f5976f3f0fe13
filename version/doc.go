// Package version reports the build of the habit binary.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/habit/version.Version=1.0.0" ./cmd/habit
package version
