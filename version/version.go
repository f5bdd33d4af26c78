// Package version reports the build version, either injected with ldflags
// or derived from VCS build info.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var (
	// Injected with ldflags at build time
	tag    string
	commit string
	date   string
)

const unknownVersion = "v0.0.0-devel"

// Version returns the version string for the bridge.
func Version() string {
	if tag != "" {
		if !strings.HasPrefix(tag, "v") {
			return "v" + tag
		}
		return tag
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		return fromVCS(info)
	}
	return unknownVersion
}

// Full returns the version plus commit and date when known.
func Full() string {
	parts := []string{Version()}
	if c := shortCommit(); c != "" {
		parts = append(parts, fmt.Sprintf("commit=%s", c))
	}
	if d := buildDate(); d != "" {
		parts = append(parts, fmt.Sprintf("date=%s", d))
	}
	return strings.Join(parts, " ")
}

func shortCommit() string {
	c := commit
	if c == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			c = setting(info, "vcs.revision")
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return c
}

func buildDate() string {
	if date != "" {
		return date
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		return setting(info, "vcs.time")
	}
	return ""
}

func fromVCS(info *debug.BuildInfo) string {
	version := unknownVersion
	if rev := setting(info, "vcs.revision"); rev != "" {
		if len(rev) > 7 {
			rev = rev[:7]
		}
		version += "+" + rev
		if setting(info, "vcs.modified") == "true" {
			version += "-dirty"
		}
	}
	return version
}

func setting(info *debug.BuildInfo, key string) string {
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
