// Package version exposes build information stamped at link time:
//
//	go build -ldflags "-X github.com/kbukum/eurekakit/version.Version=1.4.0"
//
// The agent publishes it on /info and in the instance metadata it registers.
package version
