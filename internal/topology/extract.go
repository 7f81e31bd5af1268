// Where: cli/internal/topology/extract.go
// What: Directory scan producing the validated topology tree.
// Why: The directory layout is the API schema; extraction is its parser.
package topology

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tlaloc-dev/tlaloc/cli/internal/meta"
)

// Extract walks the conventioned API subfolder under sourceRoot and builds
// the topology tree. Directories become branches, verb-named childless
// directories become leaves. Plain files are informational and ignored.
// The scan is read-only.
func Extract(sourceRoot string) (*Node, error) {
	apiRoot := filepath.Join(sourceRoot, meta.APIDir)
	info, err := os.Stat(apiRoot)
	if err != nil {
		return nil, fmt.Errorf("source root missing %s subfolder: %w", meta.APIDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", apiRoot)
	}
	return extractDir(apiRoot)
}

func extractDir(dir string) (*Node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	node := NewBranch(dir)
	hasSubdir := false
	for _, entry := range entries {
		if !entry.IsDir() {
			// Plain files are informational markers; they never affect
			// verb validation.
			continue
		}
		hasSubdir = true
		childDir := filepath.Join(dir, entry.Name())

		// Verb boundaries terminate descent: everything below a verb
		// directory is handler code, not topology.
		if verb, ok := ParseVerb(entry.Name()); ok {
			node.AddChild(entry.Name(), NewLeaf(verb, childDir))
			continue
		}

		child, err := extractDir(childDir)
		if err != nil {
			return nil, err
		}
		node.AddChild(entry.Name(), child)
	}

	// A directory with no subdirectories must itself be a verb leaf; that
	// case is handled by the parent above, so reaching here with no
	// children means a non-verb dead end.
	if !hasSubdir {
		return nil, &InvalidTopologyError{Path: dir}
	}
	return node, nil
}
