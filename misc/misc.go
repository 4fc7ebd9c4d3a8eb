// Package misc keeps build time information about the program.
package misc

// Set with -ldflags "-X nestlint/misc.version=... -X nestlint/misc.gitHash=..."
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "nestlint"

// GetAppName returns name of the program used for logs, reports and temporary files.
func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
