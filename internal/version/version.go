// Package version carries build metadata stamped in with -ldflags. The
// values are recorded on every stored run.
package version

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata for logs and run records.
func String() string {
	return Version + " (" + GitSHA + ", built " + BuildTime + ")"
}
