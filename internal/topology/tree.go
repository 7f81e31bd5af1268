// Where: cli/internal/topology/tree.go
// What: Directory-encoded API topology tree.
// Why: Give the implicit directory schema a typed shape with validated verbs.
package topology

import (
	"fmt"
	"sort"
)

// Verb is a recognized HTTP method token. Leaf directories must carry one
// of these names.
type Verb string

const (
	VerbGet     Verb = "GET"
	VerbPost    Verb = "POST"
	VerbPut     Verb = "PUT"
	VerbDelete  Verb = "DELETE"
	VerbPatch   Verb = "PATCH"
	VerbHead    Verb = "HEAD"
	VerbOptions Verb = "OPTIONS"
	VerbAny     Verb = "ANY"
)

var verbs = map[string]Verb{
	"GET":     VerbGet,
	"POST":    VerbPost,
	"PUT":     VerbPut,
	"DELETE":  VerbDelete,
	"PATCH":   VerbPatch,
	"HEAD":    VerbHead,
	"OPTIONS": VerbOptions,
	"ANY":     VerbAny,
}

// ParseVerb reports whether name is a recognized verb token.
func ParseVerb(name string) (Verb, bool) {
	verb, ok := verbs[name]
	return verb, ok
}

// Node is one element of the topology tree: either a branch mapping child
// segment names to nodes, or a verb leaf. A node is a leaf exactly when it
// has no children and its Verb is set.
type Node struct {
	children map[string]*Node
	verb     Verb
	leaf     bool
	// sourceDir is the absolute directory this node was extracted from.
	sourceDir string
}

// NewBranch returns an empty intermediate node.
func NewBranch(sourceDir string) *Node {
	return &Node{children: map[string]*Node{}, sourceDir: sourceDir}
}

// NewLeaf returns a verb leaf node.
func NewLeaf(verb Verb, sourceDir string) *Node {
	return &Node{verb: verb, leaf: true, sourceDir: sourceDir}
}

// IsLeaf reports whether the node is a verb leaf.
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// Verb returns the leaf's verb; the zero Verb for branches.
func (n *Node) Verb() Verb {
	return n.verb
}

// SourceDir returns the directory the node was extracted from.
func (n *Node) SourceDir() string {
	return n.sourceDir
}

// Child returns the named child, or nil.
func (n *Node) Child(name string) *Node {
	return n.children[name]
}

// AddChild attaches child under name. Attaching to a leaf is a programming
// error and panics.
func (n *Node) AddChild(name string, child *Node) {
	if n.leaf {
		panic(fmt.Sprintf("topology: AddChild on leaf %q", n.verb))
	}
	n.children[name] = child
}

// ChildNames returns the child segment names in sorted order so traversal
// is independent of directory scan order.
func (n *Node) ChildNames() []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InvalidTopologyError reports a childless directory whose name is not a
// recognized verb token.
type InvalidTopologyError struct {
	Path string
}

func (e *InvalidTopologyError) Error() string {
	return fmt.Sprintf("invalid topology: %s is not a recognized HTTP verb directory", e.Path)
}
