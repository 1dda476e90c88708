package meta

import (
	"fmt"
	"runtime"
)

// Info describes how a meteo binary was built. Most fields are injected by
// the Go linker, see the vars below.
type Info struct {
	Version   string
	Build     string
	Branch    string
	BuildTime string
	Platform  string
	GoVersion string
	GoTag     string
}

// These will be filled in using the linker -X flag
var (
	// Version as an arbitrary string
	Version string

	// Build is the Git sha from when we are building
	Build string

	// Branch is the Git branch that we are building from
	Branch string

	// BuildTimeUTC is the build time in UTC (year/month/day hour:min:sec)
	BuildTimeUTC string

	// GoTag lists the build tags, see https://golang.org/pkg/go/build/#hdr-Build_Constraints
	GoTag string

	platform = fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH)
)

// GetInfo returns an Info struct populated with the build information.
func GetInfo() Info {
	version := Version
	if version == "" {
		version = "dev"
	}

	return Info{
		GoVersion: runtime.Version(),
		Version:   version,
		Build:     Build,
		Branch:    Branch,
		BuildTime: BuildTimeUTC,
		GoTag:     GoTag,
		Platform:  platform,
	}
}

func (i Info) String() string {
	s := fmt.Sprintf("meteo %s", i.Version)
	if i.Build != "" {
		s += fmt.Sprintf(" (%s", i.Build)
		if i.Branch != "" {
			s += "@" + i.Branch
		}
		s += ")"
	}
	if i.BuildTime != "" {
		s += fmt.Sprintf(" built %s", i.BuildTime)
	}
	if i.GoTag != "" {
		s += fmt.Sprintf(" tags %s", i.GoTag)
	}

	return fmt.Sprintf("%s %s %s", s, i.GoVersion, i.Platform)
}
