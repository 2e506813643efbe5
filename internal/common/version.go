package common

// Set at build time via -ldflags.
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

func GetVersion() string {
	return Version
}

func GetBuild() string {
	return Build
}

func GetGitCommit() string {
	return GitCommit
}

// GetFullVersion combines version and build when a build stamp is present.
func GetFullVersion() string {
	if Build == "unknown" {
		return Version
	}
	return Version + "-" + Build
}
