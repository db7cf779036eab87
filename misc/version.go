// Package misc carries build identification helpers shared by all commands.
package misc

import "runtime/debug"

const appName = "themec"

// set by the build when releasing, otherwise derived from build info
var version = "development"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return version
}

func GetGitHash() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
