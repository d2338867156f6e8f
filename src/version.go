package stdc

import (
	"fmt"
	"io"
	"runtime/debug"
	"strconv"
)

// Set at build time via `-ldflags "-X 'github.com/doismellburning/stdcdemod/src.STDCDEMOD_VERSION=X'"`
var STDCDEMOD_VERSION string

func getBuildSettingOrDefault(bi *debug.BuildInfo, key string, defaultValue string) string {
	if bi == nil {
		return defaultValue
	}

	for _, bs := range bi.Settings {
		if bs.Key == key {
			return bs.Value
		}
	}

	return defaultValue
}

// PrintVersion writes the version line for program name to w.
func PrintVersion(w io.Writer, name string, verbose bool) {
	var buildInfo, _ = debug.ReadBuildInfo()

	var buildTimeStr = getBuildSettingOrDefault(buildInfo, "vcs.time", "UNKNOWN")

	var (
		buildCommit               = getBuildSettingOrDefault(buildInfo, "vcs.revision", "UNKNOWN")
		buildDirtyStr             = getBuildSettingOrDefault(buildInfo, "vcs.modified", "INVALID")
		buildDirty, buildDirtyErr = strconv.ParseBool(buildDirtyStr)
	)

	if buildDirty {
		buildCommit += "-DIRTY"
	} else if buildDirtyErr != nil {
		buildCommit += "-UNKNOWNDIRTY"
	}

	var version = STDCDEMOD_VERSION
	if version == "" {
		version = "!UNKNOWN!"
	}

	fmt.Fprintf(w, "%s - Version %s (revision %s, built at %s)\n", name, version, buildCommit, buildTimeStr)

	if verbose {
		fmt.Fprintf(w, "\nBuildInfo: %+v\n", buildInfo)
	}
}
