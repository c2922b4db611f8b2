// Package version exposes build metadata for livesse binaries and the
// User-Agent the event source transport sends.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/kbukum/livesse/version.Version=1.2.0"
package version
