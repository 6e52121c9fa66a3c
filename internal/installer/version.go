package installer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
)

// ErrInvalidVersion is returned when a version string cannot be compared.
var ErrInvalidVersion = errors.New("invalid version")

// parseVersion reads a QuickJS version. Releases are dated, e.g.
// "2024-01-13", so dashes are treated as dots before parsing.
func parseVersion(raw string) (*version.Version, error) {
	v, err := version.NewVersion(strings.ReplaceAll(raw, "-", "."))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidVersion, raw, err)
	}
	return v, nil
}

// Compare returns -1, 0 or 1 as a is older than, equal to, or newer than b.
func Compare(a, b string) (int, error) {
	va, err := parseVersion(a)
	if err != nil {
		return 0, err
	}
	vb, err := parseVersion(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// IsOlder reports whether current is strictly older than latest.
func IsOlder(current, latest string) (bool, error) {
	c, err := Compare(current, latest)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}
