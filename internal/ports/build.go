// Where: cli/internal/ports/build.go
// What: Ports needed by the build workflow.
// Why: Allow workflows to call into extraction and packaging via well-defined contracts.
package ports

import (
	"context"

	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/docs"
	"github.com/tlaloc-dev/tlaloc/cli/internal/graph"
	"github.com/tlaloc-dev/tlaloc/cli/internal/packager"
	"github.com/tlaloc-dev/tlaloc/cli/internal/topology"
)

// Extractor walks the source directory and produces the endpoint tree.
type Extractor interface {
	Extract(sourceRoot string) (*topology.Node, error)
}

// ArtifactPackager stages, preprocesses, and archives endpoint sources.
type ArtifactPackager interface {
	PackageAll(ctx context.Context, profile *config.Profile, endpoints []*graph.EndpointDescriptor) ([]packager.Artifact, error)
}

// DocsGenerator renders an OpenAPI document for the endpoint graph.
type DocsGenerator interface {
	Generate(profile *config.Profile, g *graph.Graph) (docs.Document, error)
}
