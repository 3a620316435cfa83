// Package version holds build information, set at link time:
//
//	go build -ldflags "-X github.com/ChristianF88/rargsort/version.Version=v1.2.0 -X github.com/ChristianF88/rargsort/version.Date=2024-01-01T00:00:00Z"
package version

var (
	Version = "dev"
	Date    = "unknown"
)
