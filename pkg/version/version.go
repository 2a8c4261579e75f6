// Package version reports which srcmerge build is running.
//
// Release builds stamp the values through the linker:
//
//	go build -ldflags "-X srcmerge/pkg/version.Version=v0.3.0 -X srcmerge/pkg/version.Commit=$(git rev-parse --short HEAD)"
//
// Binaries installed with `go install` carry no stamp; Get then falls back to
// the module version and VCS revision embedded by the toolchain.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Name is the program name used in version output and log fields.
const Name = "srcmerge"

// Linker-stamped build values.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info describes one build of srcmerge.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string // GOOS/GOARCH
}

// Get returns the stamped values, filled in from the embedded build info
// where the linker left the defaults.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return fromBuild(Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}, bi)
}

func fromBuild(i Info, bi *debug.BuildInfo) Info {
	if bi == nil {
		return i
	}
	if i.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.GitCommit == "none" && s.Value != "" {
				i.GitCommit = s.Value
			}
		case "vcs.time":
			if i.BuildTime == "unknown" && s.Value != "" {
				i.BuildTime = s.Value
			}
		}
	}
	return i
}

// String renders i on one line, as printed by `srcmerge version`.
func (i Info) String() string {
	return fmt.Sprintf("%s version %s (commit: %s) built at %s with %s on %s",
		Name, i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
