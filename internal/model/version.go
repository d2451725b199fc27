package model

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	// ErrInvalidVersion is returned for a format version that is not semver.
	ErrInvalidVersion = errors.New("invalid bundle format version")
	// ErrUnsupportedVersion is returned for a bundle from another major format.
	ErrUnsupportedVersion = errors.New("unsupported bundle format version")
)

// CheckVersion verifies that a bundle written with format version v can be
// read by this module: v must be semver and share the current major version.
// Newer minor and patch versions are accepted; unknown fields they add are
// stripped by the sanitizer.
func CheckVersion(v string) error {
	canonical := "v" + strings.TrimPrefix(v, "v")
	if !semver.IsValid(canonical) {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}

	current := "v" + CurrentFormatVersion
	if semver.Major(canonical) != semver.Major(current) {
		return fmt.Errorf("%w: %s (supported: %s.x)", ErrUnsupportedVersion, v, semver.Major(current))
	}

	return nil
}
