// Where: cli/internal/workflows/deploy.go
// What: Deploy workflow orchestration.
// Why: Upload every build output before the stack submission so the
//      template never references a missing object.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tlaloc-dev/tlaloc/cli/internal/cfn"
	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/meta"
	"github.com/tlaloc-dev/tlaloc/cli/internal/ports"
)

// DeployRequest captures the inputs required for the deploy workflow.
type DeployRequest struct {
	Profile  *config.Profile
	WithDocs bool
}

// DeployResult reports where the deployment landed.
type DeployResult struct {
	Build       BuildResult
	StackName   string
	TemplateURL string
	Uploaded    []string
}

// DeployWorkflow builds the project then pushes it to the deployer target.
type DeployWorkflow struct {
	Build         BuildWorkflow
	Store         ports.ArtifactStore
	Submitter     ports.StackSubmitter
	UserInterface ports.UserInterface
}

// NewDeployWorkflow constructs a DeployWorkflow.
func NewDeployWorkflow(build BuildWorkflow, store ports.ArtifactStore, submitter ports.StackSubmitter, ui ports.UserInterface) DeployWorkflow {
	return DeployWorkflow{
		Build:         build,
		Store:         store,
		Submitter:     submitter,
		UserInterface: ui,
	}
}

// Run executes the deploy workflow with the given request.
func (w DeployWorkflow) Run(ctx context.Context, req DeployRequest) (DeployResult, error) {
	var result DeployResult
	if w.Store == nil {
		return result, errors.New("artifact store not configured")
	}
	if w.Submitter == nil {
		return result, errors.New("stack submitter not configured")
	}

	buildResult, err := w.Build.Run(ctx, BuildRequest{Profile: req.Profile, WithDocs: req.WithDocs})
	if err != nil {
		return result, err
	}
	result.Build = buildResult

	profile := req.Profile
	templatesDir := filepath.Join(buildResult.OutputDir, meta.TemplatesDir)

	for _, artifact := range buildResult.Artifacts {
		key := cfn.ArtifactKey(profile, artifact.Endpoint)
		if err := w.upload(ctx, key, artifact.Path); err != nil {
			return result, err
		}
		result.Uploaded = append(result.Uploaded, key)
	}

	for _, endpoint := range buildResult.Graph.Endpoints {
		key := cfn.TemplateKey(profile, endpoint)
		if err := w.upload(ctx, key, filepath.Join(templatesDir, endpoint.TemplateFile)); err != nil {
			return result, err
		}
		result.Uploaded = append(result.Uploaded, key)
	}

	aggregateKey := cfn.AggregateTemplateKey(profile)
	if err := w.upload(ctx, aggregateKey, filepath.Join(templatesDir, meta.AggregateTemplateFile)); err != nil {
		return result, err
	}
	result.Uploaded = append(result.Uploaded, aggregateKey)

	result.StackName = profile.Stack
	result.TemplateURL = cfn.TemplateURL(profile, aggregateKey)
	if err := w.Submitter.Submit(ctx, result.StackName, result.TemplateURL); err != nil {
		return result, err
	}

	if w.UserInterface != nil {
		w.UserInterface.Success(fmt.Sprintf("Submitted stack %s (%d object(s) uploaded)", result.StackName, len(result.Uploaded)))
	}
	return result, nil
}

func (w DeployWorkflow) upload(ctx context.Context, key, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return w.Store.Upload(ctx, key, file)
}
