package utils

import (
	"runtime/debug"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	vcsRevisionSetting = "vcs.revision"
	shortRevisionWidth = 12
)

// Version is set at link time with -ldflags "-X github.com/temirov/codeprompt/internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion reports the linked version, then the module version from build
// info, then the VCS revision recorded by the Go toolchain.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return unknownVersion
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == vcsRevisionSetting && setting.Value != "" {
			revision := setting.Value
			if len(revision) > shortRevisionWidth {
				revision = revision[:shortRevisionWidth]
			}
			return develBuildVersion + " " + revision
		}
	}
	return unknownVersion
}
