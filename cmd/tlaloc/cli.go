// Where: cli/cmd/tlaloc/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"context"
	"os"

	"github.com/tlaloc-dev/tlaloc/cli/internal/app"
	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/deployer"
	"github.com/tlaloc-dev/tlaloc/cli/internal/ports"
)

// buildDependencies constructs all runtime dependencies required by the
// CLI. It leaves the build-side ports nil so app falls back to the real
// extractor, packager, and docs generator, and wires the AWS client
// factory for deploys.
func buildDependencies() app.Dependencies {
	return app.Dependencies{
		Out:     os.Stdout,
		Clients: openAWSClients,
	}
}

func openAWSClients(ctx context.Context, profile *config.Profile) (ports.ArtifactStore, ports.StackSubmitter, error) {
	store, submitter, err := deployer.NewAWSClients(ctx, profile)
	if err != nil {
		return nil, nil, err
	}
	return store, submitter, nil
}
