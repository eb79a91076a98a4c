package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version reports the CLI version. Released builds installed with go install
// report their module version; anything else reports the embedded
// development version, with the VCS revision appended when the build carries
// one.
func Version() string {
	devel := "devel-" + strings.TrimSpace(rawVersion)

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return devel
	}
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		return mv
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return devel + "+" + s.Value[:7]
		}
	}
	return devel
}
