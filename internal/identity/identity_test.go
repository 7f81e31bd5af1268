package identity

import "testing"

func TestNewIsDeterministic(t *testing.T) {
	first := New("alice", "users/{id}/GET")
	second := New("alice", "users/{id}/GET")
	if first != second {
		t.Fatalf("New() not deterministic: %q vs %q", first, second)
	}
}

func TestNewDistinguishesInputs(t *testing.T) {
	tests := []struct {
		name               string
		deployerA, pathA   string
		deployerB, pathB   string
	}{
		{"different path", "alice", "users/GET", "alice", "users/POST"},
		{"different deployer", "alice", "users/GET", "bob", "users/GET"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if New(tc.deployerA, tc.pathA) == New(tc.deployerB, tc.pathB) {
				t.Fatalf("New(%q,%q) == New(%q,%q)", tc.deployerA, tc.pathA, tc.deployerB, tc.pathB)
			}
		})
	}
}

func TestNewKnownVector(t *testing.T) {
	// md5("") — pins the digest choice so a silent change shows up.
	got := New("", "")
	want := Identity("d41d8cd98f00b204e9800998ecf8427e")
	if got != want {
		t.Fatalf("New(\"\",\"\") = %q, want %q", got, want)
	}
}

func TestShort(t *testing.T) {
	id := New("alice", "users/GET")
	if len(id.Short()) != 12 {
		t.Fatalf("Short() length = %d, want 12", len(id.Short()))
	}
	if id.String()[:12] != id.Short() {
		t.Fatalf("Short() is not a prefix of String()")
	}
}
