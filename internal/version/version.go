// internal/version/version.go
package version

// Version is stamped at release time; keep in sync with the changelog.
var Version = "0.2.0"
