// Package version provides the SDK version string reported to the
// service in the X-Usercloudssdk-Version header.
package version

// Version is the current release version.
// This is a var (not const) so ldflags -X can override it at build time.
var Version = "0.9.0"
