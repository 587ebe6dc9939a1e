package parts

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultInitialVersion is assigned when a part is created without an
// explicit version string.
const DefaultInitialVersion = "0.1.0"

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// IsValidVersion reports whether v is a MAJOR.MINOR.PATCH version string.
func IsValidVersion(v string) bool {
	return versionPattern.MatchString(v)
}

// CompareVersions orders two MAJOR.MINOR.PATCH strings numerically,
// returning -1, 0 or 1. Both inputs must be valid version strings.
func CompareVersions(a, b string) (int, error) {
	av, err := parseVersion(a)
	if err != nil {
		return 0, err
	}
	bv, err := parseVersion(b)
	if err != nil {
		return 0, err
	}
	for i := 0; i < 3; i++ {
		if av[i] < bv[i] {
			return -1, nil
		}
		if av[i] > bv[i] {
			return 1, nil
		}
	}
	return 0, nil
}

func parseVersion(v string) ([3]int, error) {
	var out [3]int
	if !IsValidVersion(v) {
		return out, fmt.Errorf("invalid version %q", v)
	}
	segs := strings.SplitN(v, ".", 3)
	for i, s := range segs {
		n, err := strconv.Atoi(s)
		if err != nil {
			return out, fmt.Errorf("invalid version %q: %w", v, err)
		}
		out[i] = n
	}
	return out, nil
}
