// Where: cli/internal/version/version.go
// What: Version string derivation from embedded build info.
// Why: The binary reports the VCS revision it was built from.
package version

import (
	"fmt"
	"runtime/debug"
)

// GetVersion resolves the version from the module build info: the short
// VCS revision, marked "(dirty)" when the working tree had local edits.
// Binaries built without VCS metadata report "dev".
func GetVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}

	revision := ""
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if revision == "" {
		return "dev"
	}
	if dirty {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
