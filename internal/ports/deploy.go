// Where: cli/internal/ports/deploy.go
// What: Ports needed by the deploy workflow.
// Why: Keep workflows free of AWS SDK types.
package ports

import (
	"context"
	"io"
)

// ArtifactStore uploads build outputs to remote storage.
type ArtifactStore interface {
	Upload(ctx context.Context, key string, body io.Reader) error
}

// StackSubmitter creates or updates the deployment stack.
type StackSubmitter interface {
	Submit(ctx context.Context, stackName, templateURL string) error
}
