package osver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an OS release number: major.minor with an optional patch
// component. A version without a patch sorts below any patched release of the
// same major.minor, so "5.3" < "5.3.0".
type Version struct {
	Major    int
	Minor    int
	Patch    int
	HasPatch bool

	// Raw preserves the spelling the version was parsed from, including
	// leading zeros such as "0.0103". Comparison ignores it.
	Raw string
}

// ParseVersion parses "major.minor" or "major.minor.patch". Each component
// must be a non-empty run of decimal digits.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, fmt.Errorf("os version %q: want major.minor or major.minor.patch", s)
	}
	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := parseComponent(part)
		if err != nil {
			return Version{}, fmt.Errorf("os version %q: %w", s, err)
		}
		nums[i] = n
	}
	v := Version{Major: nums[0], Minor: nums[1], Raw: s}
	if len(nums) == 3 {
		v.Patch = nums[2]
		v.HasPatch = true
	}
	return v, nil
}

// MustParseVersion is ParseVersion for trusted literals; it panics on error.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parseComponent(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty component")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("component %q is not numeric", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("component %q: %w", s, err)
	}
	return n, nil
}

// Compare orders versions lexicographically by (major, minor, patch). An
// absent patch sorts below a present one, even a present zero.
func (v Version) Compare(o Version) int {
	if v.Major != o.Major {
		return sign(v.Major - o.Major)
	}
	if v.Minor != o.Minor {
		return sign(v.Minor - o.Minor)
	}
	switch {
	case !v.HasPatch && !o.HasPatch:
		return 0
	case !v.HasPatch:
		return -1
	case !o.HasPatch:
		return 1
	}
	return sign(v.Patch - o.Patch)
}

// String returns the original spelling when the version was parsed, and a
// canonical rendering otherwise.
func (v Version) String() string {
	if v.Raw != "" {
		return v.Raw
	}
	if v.HasPatch {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
