package message

import "strconv"

// Version is an HTTP protocol version.
type Version struct {
	Major int
	Minor int
}

var (
	HTTP10 = Version{Major: 1, Minor: 0}
	HTTP11 = Version{Major: 1, Minor: 1}
)

// ParseVersion parses "HTTP/<digit>.<digit>".
func ParseVersion(s string) (Version, bool) {
	if len(s) != 8 || s[:5] != "HTTP/" || s[6] != '.' {
		return Version{}, false
	}
	major, minor := s[5], s[7]
	if major < '0' || major > '9' || minor < '0' || minor > '9' {
		return Version{}, false
	}
	return Version{Major: int(major - '0'), Minor: int(minor - '0')}, true
}

// AtLeast reports whether v is major.minor or newer.
func (v Version) AtLeast(major, minor int) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

func (v Version) String() string {
	return "HTTP/" + strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}
