// Where: cli/internal/workflows/workflow_test_helpers.go
// What: Test helpers and stub ports for workflow unit tests.
// Why: Keep workflow tests focused on orchestration behavior without external dependencies.
package workflows

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/docs"
	"github.com/tlaloc-dev/tlaloc/cli/internal/graph"
	"github.com/tlaloc-dev/tlaloc/cli/internal/meta"
	"github.com/tlaloc-dev/tlaloc/cli/internal/packager"
	"github.com/tlaloc-dev/tlaloc/cli/internal/ports"
	"github.com/tlaloc-dev/tlaloc/cli/internal/topology"
)

type testBlock struct {
	title string
	rows  []ports.KeyValue
}

type testUI struct {
	infos     []string
	warns     []string
	successes []string
	blocks    []testBlock
}

func (u *testUI) Info(msg string) {
	u.infos = append(u.infos, msg)
}

func (u *testUI) Warn(msg string) {
	u.warns = append(u.warns, msg)
}

func (u *testUI) Success(msg string) {
	u.successes = append(u.successes, msg)
}

func (u *testUI) Block(_, title string, rows []ports.KeyValue) {
	u.blocks = append(u.blocks, testBlock{title: title, rows: rows})
}

type stubExtractor struct {
	tree *topology.Node
	err  error
}

func (s *stubExtractor) Extract(string) (*topology.Node, error) {
	return s.tree, s.err
}

// stubPackager writes an empty archive per endpoint so uploads have a
// real file to read.
type stubPackager struct {
	calls int
	err   error
}

func (s *stubPackager) PackageAll(_ context.Context, profile *config.Profile, endpoints []*graph.EndpointDescriptor) ([]packager.Artifact, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	artifactsDir := filepath.Join(packager.OutputDir(profile), meta.ArtifactsDir)
	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		return nil, err
	}
	artifacts := make([]packager.Artifact, len(endpoints))
	for i, endpoint := range endpoints {
		endpoint.ArtifactFile = fmt.Sprintf("%d-%s.zip", profile.Timestamp, endpoint.ID)
		path := filepath.Join(artifactsDir, endpoint.ArtifactFile)
		if err := os.WriteFile(path, []byte("zip"), 0o644); err != nil {
			return nil, err
		}
		artifacts[i] = packager.Artifact{Endpoint: endpoint, Path: path}
	}
	return artifacts, nil
}

type stubDocs struct {
	document docs.Document
	err      error
	calls    int
}

func (s *stubDocs) Generate(*config.Profile, *graph.Graph) (docs.Document, error) {
	s.calls++
	return s.document, s.err
}

type recordStore struct {
	keys []string
	err  error
}

func (r *recordStore) Upload(_ context.Context, key string, body io.Reader) error {
	if r.err != nil {
		return r.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return err
	}
	r.keys = append(r.keys, key)
	return nil
}

type recordSubmitter struct {
	stackName   string
	templateURL string
	uploadsSeen int
	store       *recordStore
	err         error
}

func (r *recordSubmitter) Submit(_ context.Context, stackName, templateURL string) error {
	if r.err != nil {
		return r.err
	}
	r.stackName = stackName
	r.templateURL = templateURL
	if r.store != nil {
		r.uploadsSeen = len(r.store.keys)
	}
	return nil
}

func testProfile(t *testing.T) *config.Profile {
	t.Helper()
	return &config.Profile{
		Path:        t.TempDir(),
		Name:        "my-api",
		Deployer:    "test-deployer",
		Provider:    "aws",
		Title:       "My API",
		Description: "Test API",
		Version:     "1.0.0",
		AWSProfile:  "default",
		Region:      "us-east-1",
		Bucket:      "deploy-bucket",
		Stage:       "dev",
		Stack:       "my-api-stack",
		Timestamp:   1700000000,
	}
}

// testTree is the two-endpoint topology used across workflow tests:
// GET /users and POST /users.
func testTree(t *testing.T) *topology.Node {
	t.Helper()
	root := topology.NewBranch("API")
	users := topology.NewBranch("API/users")
	users.AddChild("GET", topology.NewLeaf(topology.VerbGet, "API/users/GET"))
	users.AddChild("POST", topology.NewLeaf(topology.VerbPost, "API/users/POST"))
	root.AddChild("users", users)
	return root
}
