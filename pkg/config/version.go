// Package config holds the release stamp shared by anm-server and anmctl.
package config

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/good-yellow-bee/adminnotices/pkg/config.Version=...".
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Release identifies a binary build.
type Release struct {
	Program   string `json:"program"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	Go        string `json:"go"`
	Platform  string `json:"platform"`
}

// Current describes the running binary. When no commit was stamped at link
// time it falls back to the VCS revision recorded by the go tool.
func Current(program string) Release {
	r := Release{
		Program:   program,
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if r.Commit != "" {
		return r
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				r.Commit = s.Value
			case "vcs.time":
				if r.BuildTime == "" {
					r.BuildTime = s.Value
				}
			}
		}
	}
	return r
}

// String renders the release on one line, e.g.
// "anmctl dev (3f2a9c1) go1.24.7 linux/amd64".
func (r Release) String() string {
	commit := r.Commit
	if commit == "" {
		commit = "unknown"
	} else if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s %s (%s) %s %s", r.Program, r.Version, commit, r.Go, r.Platform)
}
