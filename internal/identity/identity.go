// Where: cli/internal/identity/identity.go
// What: Deterministic identity derivation for generated resources.
// Why: Stable names keep redeploys idempotent across machines and runs.
package identity

import (
	"crypto/md5"
	"encoding/hex"
)

// Identity is a fixed-length hex digest derived from a deployer namespace
// and a logical path. It is used both as a file-naming key and as the body
// of infrastructure logical resource IDs.
//
// The digest is MD5 by deliberate choice: collision resistance here is a
// convenience property, not a security boundary, and 128 bits over the
// deployer+path namespace is plenty for an API surface.
type Identity string

// New derives the identity for logicalPath within the deployer namespace.
// Identical inputs always produce identical identities.
func New(deployer, logicalPath string) Identity {
	sum := md5.Sum([]byte(deployer + logicalPath))
	return Identity(hex.EncodeToString(sum[:]))
}

// String returns the full 32-character hex form.
func (id Identity) String() string {
	return string(id)
}

// Short returns a 12-character prefix, enough to keep console output and
// staging paths readable while remaining unique in practice.
func (id Identity) Short() string {
	if len(id) < 12 {
		return string(id)
	}
	return string(id[:12])
}
