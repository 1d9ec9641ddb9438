package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// version is a parsed "openapi" or "swagger" version string such as
// "2.0", "3.0.3" or "3.1.0-rc1".
type version struct {
	major      int
	minor      int
	patch      int
	prerelease string
}

func parseVersion(s string) (*version, error) {
	var prerelease string
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		prerelease = s[idx+1:]
		s = s[:idx]
	}

	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("invalid version format: %q", s)
	}

	nums := [3]int{}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > math.MaxInt32 {
			return nil, fmt.Errorf("invalid version component %q in %q", part, s)
		}
		nums[i] = n
	}

	return &version{
		major:      nums[0],
		minor:      nums[1],
		patch:      nums[2],
		prerelease: prerelease,
	}, nil
}

func (v *version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
	if v.prerelease != "" {
		s += "-" + v.prerelease
	}
	return s
}
