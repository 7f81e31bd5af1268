// Where: cli/internal/app/deploy.go
// What: Deploy command handler.
// Why: Wire the deploy workflow from resolved profile and clients.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tlaloc-dev/tlaloc/cli/internal/ports"
	"github.com/tlaloc-dev/tlaloc/cli/internal/workflows"
)

func runDeploy(cli CLI, deps Dependencies, out io.Writer) int {
	profile, err := resolveProfile(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}

	if deps.Clients == nil {
		return exitWithError(out, errors.New("deploy: no client factory configured"))
	}

	ctx := context.Background()
	if cli.Deploy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cli.Deploy.Timeout)
		defer cancel()
	}

	store, submitter, err := deps.Clients(ctx, profile)
	if err != nil {
		return exitWithError(out, err)
	}

	build := buildWorkflowFor(deps, out, cli.Deploy.Workers)
	workflow := workflows.NewDeployWorkflow(build, store, submitter, ports.NewConsoleUI(out))

	result, err := workflow.Run(ctx, workflows.DeployRequest{
		Profile:  profile,
		WithDocs: cli.Deploy.Docs,
	})
	if err != nil {
		return exitWithError(out, err)
	}

	fmt.Fprintf(out, "Stack: %s\n", result.StackName)
	fmt.Fprintf(out, "Template: %s\n", result.TemplateURL)
	return 0
}
