package topology

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func makeDirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("MkdirAll(%s) error = %v", dir, err)
		}
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll error = %v", err)
	}
	if err := os.WriteFile(path, []byte("// handler\n"), 0o600); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
}

func TestExtractValidTree(t *testing.T) {
	root := t.TempDir()
	makeDirs(t, root,
		"API/users/GET",
		"API/users/{id}/DELETE",
		"API/health/GET",
	)
	writeFile(t, filepath.Join(root, "API/users/GET/index.js"))
	writeFile(t, filepath.Join(root, "API/users/README.md"))

	tree, err := Extract(root)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	users := tree.Child("users")
	if users == nil || users.IsLeaf() {
		t.Fatalf("users node missing or leaf")
	}
	get := users.Child("GET")
	if get == nil || !get.IsLeaf() || get.Verb() != VerbGet {
		t.Fatalf("users/GET leaf wrong: %+v", get)
	}
	id := users.Child("{id}")
	if id == nil || id.Child("DELETE") == nil {
		t.Fatalf("users/{id}/DELETE missing")
	}
	if got := id.Child("DELETE").Verb(); got != VerbDelete {
		t.Fatalf("verb = %v, want DELETE", got)
	}
}

func TestExtractVerbDirWithNestedCodeIsLeaf(t *testing.T) {
	root := t.TempDir()
	makeDirs(t, root, "API/orders/POST/lib")
	writeFile(t, filepath.Join(root, "API/orders/POST/lib/util.js"))

	tree, err := Extract(root)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	post := tree.Child("orders").Child("POST")
	if post == nil || !post.IsLeaf() {
		t.Fatalf("orders/POST should be a leaf despite nested dirs")
	}
}

func TestExtractRejectsNonVerbLeaf(t *testing.T) {
	root := t.TempDir()
	makeDirs(t, root, "API/users/FETCH")

	_, err := Extract(root)
	var topoErr *InvalidTopologyError
	if !errors.As(err, &topoErr) {
		t.Fatalf("Extract() error = %v, want InvalidTopologyError", err)
	}
	if filepath.Base(topoErr.Path) != "FETCH" {
		t.Fatalf("offending path = %s, want .../FETCH", topoErr.Path)
	}
}

func TestExtractRejectsMissingAPIDir(t *testing.T) {
	root := t.TempDir()
	if _, err := Extract(root); err == nil {
		t.Fatal("Extract() expected error for missing API dir")
	}
}

func TestParseVerb(t *testing.T) {
	for _, name := range []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS", "ANY"} {
		if _, ok := ParseVerb(name); !ok {
			t.Fatalf("ParseVerb(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"get", "FETCH", "", "Get"} {
		if _, ok := ParseVerb(name); ok {
			t.Fatalf("ParseVerb(%q) = true, want false", name)
		}
	}
}
