// Where: cli/internal/packager/packager.go
// What: Per-endpoint staging, preprocessing, and archive creation.
// Why: Produce isolated, all-or-nothing zip artifacts for the deployer.
package packager

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/fileops"
	"github.com/tlaloc-dev/tlaloc/cli/internal/graph"
	"github.com/tlaloc-dev/tlaloc/cli/internal/meta"
	"github.com/tlaloc-dev/tlaloc/cli/internal/preprocessor"
)

// DefaultWorkers bounds concurrent endpoint packaging. Endpoints share no
// mutable state, so the only contention is filesystem bandwidth.
const DefaultWorkers = 4

// textExtensions lists file suffixes eligible for preprocessing. Binary
// payloads are copied through untouched.
var textExtensions = map[string]bool{
	".js":   true,
	".mjs":  true,
	".py":   true,
	".json": true,
	".txt":  true,
	".yml":  true,
	".yaml": true,
}

// PackagingError reports a staging or archive failure for one endpoint.
// Any instance aborts the whole build: partial artifact sets are never
// handed to the deployer.
type PackagingError struct {
	Endpoint string
	Op       string
	Err      error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("packaging %s: %s: %v", e.Endpoint, e.Op, e.Err)
}

func (e *PackagingError) Unwrap() error {
	return e.Err
}

// Artifact pairs an endpoint with its finished archive on disk.
type Artifact struct {
	Endpoint *graph.EndpointDescriptor
	Path     string
}

// Packager stages and archives endpoints under the profile's output
// directory.
type Packager struct {
	Workers int
}

// OutputDir returns the build output root for a profile.
func OutputDir(profile *config.Profile) string {
	return filepath.Join(profile.Path, meta.OutputDir)
}

// PackageAll packages every endpoint through a bounded worker pool. The
// first failure cancels outstanding work and is returned; on success the
// artifact list is ordered like the input endpoints.
func (p *Packager) PackageAll(
	ctx context.Context,
	profile *config.Profile,
	endpoints []*graph.EndpointDescriptor,
) ([]Artifact, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	artifacts := make([]Artifact, len(endpoints))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i, endpoint := range endpoints {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			artifact, err := p.packageOne(profile, endpoint)
			if err != nil {
				return err
			}
			artifacts[i] = artifact
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// packageOne stages the endpoint source, preprocesses the staged copy, and
// zips it. The original source tree is never written to.
func (p *Packager) packageOne(profile *config.Profile, endpoint *graph.EndpointDescriptor) (Artifact, error) {
	label := graph.MethodPath(endpoint.ResourcePath, endpoint.Verb)

	if !fileops.DirExists(endpoint.SourcePath) {
		return Artifact{}, &PackagingError{
			Endpoint: label,
			Op:       "stat source",
			Err:      fmt.Errorf("source directory missing: %s", endpoint.SourcePath),
		}
	}

	modTime, err := fileops.LatestModTime(endpoint.SourcePath)
	if err != nil {
		return Artifact{}, &PackagingError{Endpoint: label, Op: "stat source", Err: err}
	}

	outputDir := OutputDir(profile)
	stagingDir := filepath.Join(outputDir, meta.StagingDir, endpoint.ID.String())

	if err := fileops.RemoveDir(stagingDir); err != nil {
		return Artifact{}, &PackagingError{Endpoint: label, Op: "clean staging", Err: err}
	}
	if err := fileops.CopyDir(endpoint.SourcePath, stagingDir); err != nil {
		return Artifact{}, &PackagingError{Endpoint: label, Op: "stage copy", Err: err}
	}

	if err := preprocessStaged(stagingDir, profile.Values()); err != nil {
		// Preprocessor scope errors keep their own type; they are source
		// defects, not packaging failures.
		return Artifact{}, err
	}

	endpoint.ArtifactFile = fmt.Sprintf("%d-%s.zip", modTime.Unix(), endpoint.ID)
	artifactPath := filepath.Join(outputDir, meta.ArtifactsDir, endpoint.ArtifactFile)
	if err := fileops.ZipDir(stagingDir, artifactPath); err != nil {
		return Artifact{}, &PackagingError{Endpoint: label, Op: "archive", Err: err}
	}

	return Artifact{Endpoint: endpoint, Path: artifactPath}, nil
}

// preprocessStaged rewrites every eligible text file in the staged copy
// through the conditional preprocessor. Files are visited in sorted order
// for reproducible error reporting.
func preprocessStaged(stagingDir string, values map[string]string) error {
	var files []string
	err := filepath.WalkDir(stagingDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if textExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(stagingDir, path)
		if relErr != nil {
			rel = path
		}
		filtered, err := preprocessor.Apply(string(raw), values, rel)
		if err != nil {
			return err
		}
		if filtered == string(raw) {
			continue
		}
		if err := os.WriteFile(path, []byte(filtered), 0o600); err != nil {
			return err
		}
	}
	return nil
}
