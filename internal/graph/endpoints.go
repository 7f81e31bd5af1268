// Where: cli/internal/graph/endpoints.go
// What: Flattening of the topology tree into endpoint descriptors.
// Why: Endpoints are the unit of packaging and of nested-stack generation.
package graph

import (
	"sort"
	"strings"

	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/identity"
	"github.com/tlaloc-dev/tlaloc/cli/internal/topology"
)

// EndpointDescriptor is one (resource path, verb) pair bound to packaged
// handler code. Its identity is a pure function of (deployer, resource
// path, verb), which is what keeps redeploys idempotent.
type EndpointDescriptor struct {
	ID           identity.Identity
	Verb         topology.Verb
	SourcePath   string
	ResourcePath string

	// TemplateFile is the per-endpoint template fragment name.
	TemplateFile string

	// ArtifactFile is assigned by the packager once the archive epoch is
	// known; empty until then.
	ArtifactFile string
}

// MethodPath is the logical path hashed for the endpoint identity:
// the resource path plus the verb segment.
func MethodPath(resourcePath string, verb topology.Verb) string {
	if resourcePath == "" {
		return string(verb)
	}
	return resourcePath + "/" + string(verb)
}

// flattenEndpoints walks the tree and emits one descriptor per verb leaf,
// ordered by (resource path, verb) so output never depends on scan order.
func flattenEndpoints(tree *topology.Node, profile *config.Profile) []*EndpointDescriptor {
	var endpoints []*EndpointDescriptor
	var walk func(node *topology.Node, segments []string)
	walk = func(node *topology.Node, segments []string) {
		if node.IsLeaf() {
			resourcePath := strings.Join(segments, "/")
			id := identity.New(profile.Deployer, MethodPath(resourcePath, node.Verb()))
			endpoints = append(endpoints, &EndpointDescriptor{
				ID:           id,
				Verb:         node.Verb(),
				SourcePath:   node.SourceDir(),
				ResourcePath: resourcePath,
				TemplateFile: id.String() + ".json",
			})
			return
		}
		for _, name := range node.ChildNames() {
			child := node.Child(name)
			if child.IsLeaf() {
				walk(child, segments)
				continue
			}
			walk(child, append(segments, name))
		}
	}
	walk(tree, nil)

	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].ResourcePath != endpoints[j].ResourcePath {
			return endpoints[i].ResourcePath < endpoints[j].ResourcePath
		}
		return endpoints[i].Verb < endpoints[j].Verb
	})
	return endpoints
}
