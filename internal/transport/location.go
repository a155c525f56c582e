package transport

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Location is a parsed path argument: local, or on an SSH host.
type Location struct {
	Host string
	User string
	Path string
}

// IsRemote returns true if the location refers to a remote host.
func (l Location) IsRemote() bool {
	return l.Host != ""
}

// SameHost reports whether l and o are read through the same filesystem.
func (l Location) SameHost(o Location) bool {
	return l.Host == o.Host && l.User == o.User
}

// String returns a human-readable representation.
func (l Location) String() string {
	if !l.IsRemote() {
		return l.Path
	}
	if l.User != "" {
		return fmt.Sprintf("%s@%s:%s", l.User, l.Host, l.Path)
	}
	return fmt.Sprintf("%s:%s", l.Host, l.Path)
}

// ParseLocation parses a CLI argument into a Location.
//
// Supported formats:
//   - /absolute/path       → local
//   - relative/path        → local
//   - host:path            → SSH remote (current user)
//   - user@host:path       → SSH remote
//
// A path containing ":" is only treated as remote if the part before the
// colon contains no path separators (so "/foo:bar" and "./host:path" are local).
func ParseLocation(arg string) Location {
	if filepath.IsAbs(arg) || strings.HasPrefix(arg, "./") || strings.HasPrefix(arg, "../") {
		return Location{Path: arg}
	}

	colonIdx := strings.IndexByte(arg, ':')
	if colonIdx <= 0 {
		return Location{Path: arg}
	}

	hostPart := arg[:colonIdx]
	if strings.ContainsRune(hostPart, filepath.Separator) || strings.ContainsRune(hostPart, '/') {
		return Location{Path: arg}
	}

	var userName, host string
	if atIdx := strings.LastIndexByte(hostPart, '@'); atIdx >= 0 {
		userName = hostPart[:atIdx]
		host = hostPart[atIdx+1:]
	} else {
		host = hostPart
	}
	if host == "" {
		return Location{Path: arg}
	}

	pathPart := arg[colonIdx+1:]
	if pathPart == "" {
		pathPart = "."
	}
	return Location{Host: host, User: userName, Path: pathPart}
}

// ParseLocations parses every argument and checks they all live on one
// filesystem. It returns the shared location (Path unset) and the paths.
func ParseLocations(args []string) (Location, []string, error) {
	if len(args) == 0 {
		return Location{}, nil, errors.New("no paths given")
	}
	first := ParseLocation(args[0])
	paths := make([]string, len(args))
	for i, arg := range args {
		loc := ParseLocation(arg)
		if !loc.SameHost(first) {
			return Location{}, nil, fmt.Errorf("%s and %s are on different hosts", args[0], arg)
		}
		paths[i] = loc.Path
	}
	first.Path = ""
	return first, paths, nil
}
