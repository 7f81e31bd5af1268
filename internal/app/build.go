// Where: cli/internal/app/build.go
// What: Build and docs command handlers.
// Why: Orchestrate build operations in a testable way.
package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/docs"
	"github.com/tlaloc-dev/tlaloc/cli/internal/fileops"
	"github.com/tlaloc-dev/tlaloc/cli/internal/graph"
	"github.com/tlaloc-dev/tlaloc/cli/internal/meta"
	"github.com/tlaloc-dev/tlaloc/cli/internal/packager"
	"github.com/tlaloc-dev/tlaloc/cli/internal/ports"
	"github.com/tlaloc-dev/tlaloc/cli/internal/topology"
	"github.com/tlaloc-dev/tlaloc/cli/internal/workflows"
)

// extractorFunc adapts a plain extraction function to the port.
type extractorFunc func(sourceRoot string) (*topology.Node, error)

func (f extractorFunc) Extract(sourceRoot string) (*topology.Node, error) {
	return f(sourceRoot)
}

// defaultDocsGenerator backs the docs port with the package function.
type defaultDocsGenerator struct{}

func (defaultDocsGenerator) Generate(profile *config.Profile, g *graph.Graph) (docs.Document, error) {
	return docs.Generate(profile, g)
}

func buildWorkflowFor(deps Dependencies, out io.Writer, workers int) workflows.BuildWorkflow {
	extractor := deps.Extractor
	if extractor == nil {
		extractor = extractorFunc(topology.Extract)
	}

	pack := deps.Packager
	if pack == nil {
		pack = &packager.Packager{Workers: workers}
	}

	docsGen := deps.Docs
	if docsGen == nil {
		docsGen = defaultDocsGenerator{}
	}

	return workflows.NewBuildWorkflow(extractor, pack, docsGen, ports.NewConsoleUI(out))
}

func runBuild(cli CLI, deps Dependencies, out io.Writer) int {
	profile, err := resolveProfile(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}

	workflow := buildWorkflowFor(deps, out, cli.Build.Workers)
	result, err := workflow.Run(context.Background(), workflows.BuildRequest{
		Profile:  profile,
		WithDocs: cli.Build.Docs,
	})
	if err != nil {
		return exitWithError(out, err)
	}

	fmt.Fprintf(out, "Output: %s\n", result.OutputDir)
	return 0
}

// runDocs generates the OpenAPI document without packaging anything.
func runDocs(cli CLI, deps Dependencies, out io.Writer) int {
	profile, err := resolveProfile(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}

	extractor := deps.Extractor
	if extractor == nil {
		extractor = extractorFunc(topology.Extract)
	}
	docsGen := deps.Docs
	if docsGen == nil {
		docsGen = defaultDocsGenerator{}
	}
	ui := ports.NewConsoleUI(out)

	tree, err := extractor.Extract(profile.Path)
	if err != nil {
		return exitWithError(out, err)
	}
	g, err := graph.Build(tree, profile)
	if err != nil {
		return exitWithError(out, err)
	}

	document, err := docsGen.Generate(profile, g)
	if err != nil {
		return exitWithError(out, err)
	}
	for _, warning := range document.Warnings {
		ui.Warn(warning)
	}

	docsDir := filepath.Join(packager.OutputDir(profile), meta.DocsDir)
	if err := fileops.EnsureDir(docsDir); err != nil {
		return exitWithError(out, err)
	}
	docsPath := filepath.Join(docsDir, meta.OpenAPIFile)
	if err := fileops.WriteFile(docsPath, document.JSON); err != nil {
		return exitWithError(out, err)
	}

	ui.Success("Wrote " + docsPath)
	return 0
}
