// Package misc provides program identification values shared by all binaries.
// appName, appVersion and gitHash are overwritten by the linker during release
// builds (see Taskfile), the defaults below are only seen in ad-hoc builds.
package misc

import "runtime/debug"

var (
	appName    = "dsc"
	appVersion = "development"
	gitHash    = ""
)

// GetAppName returns base name used for binaries, log files and temporary directories.
func GetAppName() string {
	return appName
}

// GetVersion returns program version set during the build.
func GetVersion() string {
	return appVersion
}

// GetGitHash returns source revision the program was built from.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
