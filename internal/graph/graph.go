// Where: cli/internal/graph/graph.go
// What: Deployment graph construction from the validated topology tree.
// Why: The graph is the single hand-off object between the build pipeline
//      and template assembly / deployment.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/identity"
	"github.com/tlaloc-dev/tlaloc/cli/internal/topology"
)

// ResourceNode is one API resource in the hierarchy, keyed by the identity
// of its slash-joined path. Parent resolution is purely textual: the path
// with its last segment removed, or the API root for single-segment paths.
type ResourceNode struct {
	Path     string
	Segment  string
	ID       identity.Identity
	ParentID identity.Identity
	// RootParent marks nodes attached directly to the API root resource.
	RootParent bool
}

// CORSNode is a synthesized OPTIONS method enabling CORS preflight on a
// resource that defines no explicit OPTIONS endpoint.
type CORSNode struct {
	ResourcePath string
	ID           identity.Identity
}

// CORS response headers offered by synthesized OPTIONS methods.
const (
	CORSAllowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"
	CORSAllowMethods = "GET,POST,PUT,DELETE,PATCH,HEAD,OPTIONS"
	CORSAllowOrigin  = "*"
)

// Graph is the full deployment graph: endpoint descriptors, the resource
// hierarchy, synthesized CORS nodes, and the deployment node's dependency
// set. It is immutable once Build returns.
type Graph struct {
	Endpoints []*EndpointDescriptor
	Resources []*ResourceNode
	CORS      []*CORSNode

	// DeploymentID names the synthetic deployment node.
	DeploymentID identity.Identity

	// DeploymentDependencies is the union of every method, nested-stack,
	// and CORS identity: nothing may deploy before the whole API surface
	// is provisioned.
	DeploymentDependencies []identity.Identity

	resourcesByPath map[string]*ResourceNode
}

// Build derives the deployment graph from tree under profile.
func Build(tree *topology.Node, profile *config.Profile) (*Graph, error) {
	if tree == nil {
		return nil, fmt.Errorf("topology tree is nil")
	}
	if tree.IsLeaf() {
		return nil, fmt.Errorf("topology root cannot be a verb leaf")
	}

	endpoints := flattenEndpoints(tree, profile)
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints found under %s", profile.Path)
	}

	resources, byPath := buildResources(endpoints, profile)
	cors := synthesizeCORS(endpoints, profile)

	g := &Graph{
		Endpoints:       endpoints,
		Resources:       resources,
		CORS:            cors,
		DeploymentID:    identity.New(profile.Deployer, "deployment"),
		resourcesByPath: byPath,
	}
	g.DeploymentDependencies = deploymentDependencies(endpoints, cors)
	return g, nil
}

// Resource returns the node for a resource path, or nil.
func (g *Graph) Resource(path string) *ResourceNode {
	return g.resourcesByPath[path]
}

// buildResources creates one ResourceNode per distinct non-empty prefix of
// every endpoint's resource path, including intermediate segments that
// carry no method themselves.
func buildResources(endpoints []*EndpointDescriptor, profile *config.Profile) ([]*ResourceNode, map[string]*ResourceNode) {
	paths := map[string]struct{}{}
	for _, endpoint := range endpoints {
		if endpoint.ResourcePath == "" {
			continue
		}
		segments := strings.Split(endpoint.ResourcePath, "/")
		for i := 1; i <= len(segments); i++ {
			paths[strings.Join(segments[:i], "/")] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(paths))
	for path := range paths {
		sorted = append(sorted, path)
	}
	sort.Strings(sorted)

	byPath := make(map[string]*ResourceNode, len(sorted))
	nodes := make([]*ResourceNode, 0, len(sorted))
	for _, path := range sorted {
		segments := strings.Split(path, "/")
		node := &ResourceNode{
			Path:    path,
			Segment: segments[len(segments)-1],
			ID:      identity.New(profile.Deployer, path),
		}
		if len(segments) == 1 {
			node.RootParent = true
		} else {
			parentPath := strings.Join(segments[:len(segments)-1], "/")
			node.ParentID = identity.New(profile.Deployer, parentPath)
		}
		byPath[path] = node
		nodes = append(nodes, node)
	}
	return nodes, byPath
}

// synthesizeCORS emits one OPTIONS node per resource path that carries at
// least one method but no explicit OPTIONS endpoint. Explicit definitions
// always win; method-less intermediate paths get nothing.
func synthesizeCORS(endpoints []*EndpointDescriptor, profile *config.Profile) []*CORSNode {
	hasMethod := map[string]bool{}
	hasOptions := map[string]bool{}
	for _, endpoint := range endpoints {
		hasMethod[endpoint.ResourcePath] = true
		if endpoint.Verb == topology.VerbOptions {
			hasOptions[endpoint.ResourcePath] = true
		}
	}

	paths := make([]string, 0, len(hasMethod))
	for path := range hasMethod {
		if !hasOptions[path] {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	nodes := make([]*CORSNode, 0, len(paths))
	for _, path := range paths {
		nodes = append(nodes, &CORSNode{
			ResourcePath: path,
			ID:           identity.New(profile.Deployer, MethodPath(path, topology.VerbOptions)),
		})
	}
	return nodes
}

// deploymentDependencies is the union of all method and nested-stack
// identities (one of each per endpoint) plus every CORS identity.
func deploymentDependencies(endpoints []*EndpointDescriptor, cors []*CORSNode) []identity.Identity {
	seen := map[identity.Identity]struct{}{}
	deps := make([]identity.Identity, 0, len(endpoints)+len(cors))
	add := func(id identity.Identity) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		deps = append(deps, id)
	}
	for _, endpoint := range endpoints {
		add(endpoint.ID)
	}
	for _, node := range cors {
		add(node.ID)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
	return deps
}

// Validate checks the structural invariants: every resource's parent chain
// terminates at the root without cycles, and every endpoint's resource
// path has a node.
func (g *Graph) Validate() error {
	byID := map[identity.Identity]*ResourceNode{}
	for _, node := range g.Resources {
		byID[node.ID] = node
	}
	for _, node := range g.Resources {
		seen := map[identity.Identity]struct{}{node.ID: {}}
		current := node
		for !current.RootParent {
			parent, ok := byID[current.ParentID]
			if !ok {
				return fmt.Errorf("resource %s: parent of %q missing", current.ID.Short(), current.Path)
			}
			if _, dup := seen[parent.ID]; dup {
				return fmt.Errorf("resource %s: parent cycle at %q", node.ID.Short(), parent.Path)
			}
			seen[parent.ID] = struct{}{}
			current = parent
		}
	}
	for _, endpoint := range g.Endpoints {
		if endpoint.ResourcePath == "" {
			continue
		}
		if g.Resource(endpoint.ResourcePath) == nil {
			return fmt.Errorf("endpoint %s: no resource node for %q", endpoint.ID.Short(), endpoint.ResourcePath)
		}
	}
	return nil
}
