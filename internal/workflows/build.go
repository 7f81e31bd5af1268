// Where: cli/internal/workflows/build.go
// What: Build workflow orchestration.
// Why: Keep CLI commands thin while hosting the business logic in workflows.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tlaloc-dev/tlaloc/cli/internal/cfn"
	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/fileops"
	"github.com/tlaloc-dev/tlaloc/cli/internal/graph"
	"github.com/tlaloc-dev/tlaloc/cli/internal/meta"
	"github.com/tlaloc-dev/tlaloc/cli/internal/packager"
	"github.com/tlaloc-dev/tlaloc/cli/internal/ports"
)

// BuildRequest captures the inputs required for the build workflow.
type BuildRequest struct {
	Profile  *config.Profile
	WithDocs bool
}

// BuildResult reports what a build produced.
type BuildResult struct {
	Graph     *graph.Graph
	Artifacts []packager.Artifact
	OutputDir string
	DocsPath  string
}

// BuildWorkflow turns a source directory into artifacts and templates.
type BuildWorkflow struct {
	Extractor     ports.Extractor
	Packager      ports.ArtifactPackager
	Docs          ports.DocsGenerator
	UserInterface ports.UserInterface
}

// NewBuildWorkflow constructs a BuildWorkflow.
func NewBuildWorkflow(extractor ports.Extractor, pack ports.ArtifactPackager, docs ports.DocsGenerator, ui ports.UserInterface) BuildWorkflow {
	return BuildWorkflow{
		Extractor:     extractor,
		Packager:      pack,
		Docs:          docs,
		UserInterface: ui,
	}
}

// Run executes the build workflow with the given request.
func (w BuildWorkflow) Run(ctx context.Context, req BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req.Profile == nil {
		return result, errors.New("profile not configured")
	}
	if w.Extractor == nil {
		return result, errors.New("extractor not configured")
	}
	if w.Packager == nil {
		return result, errors.New("packager not configured")
	}

	profile := req.Profile
	result.OutputDir = packager.OutputDir(profile)

	w.printHeader(profile)

	tree, err := w.Extractor.Extract(profile.Path)
	if err != nil {
		return result, err
	}

	g, err := graph.Build(tree, profile)
	if err != nil {
		return result, err
	}
	if err := g.Validate(); err != nil {
		return result, err
	}
	result.Graph = g

	artifacts, err := w.Packager.PackageAll(ctx, profile, g.Endpoints)
	if err != nil {
		return result, err
	}
	result.Artifacts = artifacts

	if err := w.writeTemplates(profile, g, result.OutputDir); err != nil {
		return result, err
	}

	if req.WithDocs {
		docsPath, err := w.writeDocs(profile, g, result.OutputDir)
		if err != nil {
			return result, err
		}
		result.DocsPath = docsPath
	}

	if w.UserInterface != nil {
		w.UserInterface.Success(fmt.Sprintf("Build complete: %d endpoint(s) packaged", len(artifacts)))
	}
	return result, nil
}

func (w BuildWorkflow) printHeader(profile *config.Profile) {
	if w.UserInterface == nil {
		return
	}
	w.UserInterface.Block("🔨", "Building "+profile.Name, []ports.KeyValue{
		{Key: "Source", Value: profile.Path},
		{Key: "Deployer", Value: profile.Deployer},
		{Key: "Stage", Value: profile.Stage},
	})
}

// writeTemplates renders one fragment per endpoint plus the aggregate
// template under <output>/templates.
func (w BuildWorkflow) writeTemplates(profile *config.Profile, g *graph.Graph, outputDir string) error {
	templatesDir := filepath.Join(outputDir, meta.TemplatesDir)
	if err := fileops.EnsureDir(templatesDir); err != nil {
		return err
	}

	for _, endpoint := range g.Endpoints {
		fragment := cfn.BuildFragment(profile, endpoint)
		if err := cfn.Write(filepath.Join(templatesDir, endpoint.TemplateFile), fragment); err != nil {
			return err
		}
	}

	aggregate := cfn.BuildAggregate(profile, g)
	return cfn.Write(filepath.Join(templatesDir, meta.AggregateTemplateFile), aggregate)
}

// writeDocs renders the OpenAPI document. Documentation problems degrade
// to warnings so a build never fails on a malformed swagger block.
func (w BuildWorkflow) writeDocs(profile *config.Profile, g *graph.Graph, outputDir string) (string, error) {
	if w.Docs == nil {
		return "", errors.New("docs generator not configured")
	}

	document, err := w.Docs.Generate(profile, g)
	if err != nil {
		return "", err
	}
	for _, warning := range document.Warnings {
		if w.UserInterface != nil {
			w.UserInterface.Warn(warning)
		}
	}

	docsDir := filepath.Join(outputDir, meta.DocsDir)
	if err := fileops.EnsureDir(docsDir); err != nil {
		return "", err
	}
	docsPath := filepath.Join(docsDir, meta.OpenAPIFile)
	if err := fileops.WriteFile(docsPath, document.JSON); err != nil {
		return "", err
	}
	return docsPath, nil
}
