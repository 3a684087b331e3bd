package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckSchemaCompatibility checks whether a history store written with
// storedVersion can be read by code expecting currentVersion.
// Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.2.0 is compatible with 1.2.5)
func CheckSchemaCompatibility(currentVersion, storedVersion string) error {
	// Strip 'v' prefix if present for consistency
	currentVersion = strings.TrimPrefix(currentVersion, "v")
	storedVersion = strings.TrimPrefix(storedVersion, "v")

	// Skip version check for "main" (development builds)
	if currentVersion == "main" || storedVersion == "main" {
		return nil
	}

	currentSemver, err := semver.NewVersion(currentVersion)
	if err != nil {
		return fmt.Errorf("invalid schema version '%s': %w", currentVersion, err)
	}

	storedSemver, err := semver.NewVersion(storedVersion)
	if err != nil {
		return fmt.Errorf("invalid stored schema version '%s': %w", storedVersion, err)
	}

	if currentSemver.Major() != storedSemver.Major() {
		return fmt.Errorf("major schema version mismatch: expected %d.x.x but store was written with %d.x.x",
			currentSemver.Major(), storedSemver.Major())
	}

	if currentSemver.Minor() != storedSemver.Minor() {
		return fmt.Errorf("minor schema version mismatch: expected %d.%d.x but store was written with %d.%d.x",
			currentSemver.Major(), currentSemver.Minor(),
			storedSemver.Major(), storedSemver.Minor())
	}

	// Patch versions can differ, so we're compatible
	return nil
}
