package updater

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// IsRelease reports whether version names a tagged build. Development builds
// ("dev", "", commit hashes) are not releases and are never told to update.
func IsRelease(version string) bool {
	_, err := semver.NewVersion(version)
	return err == nil
}

// Outdated reports whether current is behind latest. A prerelease latest
// only counts for users already running a prerelease.
func Outdated(current, latest string) (bool, error) {
	if !IsRelease(current) {
		return false, nil
	}
	cv, err := semver.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("parsing current version %q: %w", current, err)
	}
	lv, err := semver.NewVersion(latest)
	if err != nil {
		return false, fmt.Errorf("parsing release tag %q: %w", latest, err)
	}
	if lv.Prerelease() != "" && cv.Prerelease() == "" {
		return false, nil
	}
	return cv.LessThan(lv), nil
}
