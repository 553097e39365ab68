// Package version reports the build version of chatkit programs.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/chatkit/version.Version=1.0.0"
package version
