// Package paper looks up PaperMC server builds for Minecraft versions.
package paper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersion is returned for version strings that are not
// "major.minor" or "major.minor.patch".
var ErrInvalidVersion = errors.New("invalid MC version")

// Version is a Minecraft release number. Patch 0 is omitted when printed.
type Version struct {
	Major, Minor, Patch uint8
}

// ParseVersion parses "1.20" or "1.20.4". Components past the patch are ignored.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return Version{}, ErrInvalidVersion
	}
	major, err := component(parts[0])
	if err != nil {
		return Version{}, err
	}
	minor, err := component(parts[1])
	if err != nil {
		return Version{}, err
	}
	var patch uint8
	if len(parts) > 2 {
		if patch, err = component(parts[2]); err != nil {
			return Version{}, err
		}
	}
	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

func component(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, ErrInvalidVersion
	}
	return uint8(n), nil
}

func (v Version) String() string {
	if v.Patch == 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
