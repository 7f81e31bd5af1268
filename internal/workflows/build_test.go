package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tlaloc-dev/tlaloc/cli/internal/docs"
	"github.com/tlaloc-dev/tlaloc/cli/internal/meta"
)

func TestBuildWorkflowWritesTemplates(t *testing.T) {
	profile := testProfile(t)
	ui := &testUI{}
	pack := &stubPackager{}
	workflow := NewBuildWorkflow(&stubExtractor{tree: testTree(t)}, pack, &stubDocs{}, ui)

	result, err := workflow.Run(context.Background(), BuildRequest{Profile: profile})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Artifacts) != 2 {
		t.Fatalf("artifacts = %d, want 2", len(result.Artifacts))
	}
	if pack.calls != 1 {
		t.Errorf("packager calls = %d, want 1", pack.calls)
	}

	templatesDir := filepath.Join(result.OutputDir, meta.TemplatesDir)
	for _, endpoint := range result.Graph.Endpoints {
		path := filepath.Join(templatesDir, endpoint.TemplateFile)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read fragment %s: %v", endpoint.TemplateFile, err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Errorf("fragment %s is not valid JSON: %v", endpoint.TemplateFile, err)
		}
	}

	aggregate := filepath.Join(templatesDir, meta.AggregateTemplateFile)
	if _, err := os.Stat(aggregate); err != nil {
		t.Errorf("aggregate template missing: %v", err)
	}

	if len(ui.successes) != 1 {
		t.Errorf("successes = %v, want one build-complete message", ui.successes)
	}
}

func TestBuildWorkflowSkipsDocsByDefault(t *testing.T) {
	docsGen := &stubDocs{}
	workflow := NewBuildWorkflow(&stubExtractor{tree: testTree(t)}, &stubPackager{}, docsGen, &testUI{})

	result, err := workflow.Run(context.Background(), BuildRequest{Profile: testProfile(t)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if docsGen.calls != 0 {
		t.Errorf("docs generator called %d times, want 0", docsGen.calls)
	}
	if result.DocsPath != "" {
		t.Errorf("DocsPath = %q, want empty", result.DocsPath)
	}
}

func TestBuildWorkflowWritesDocsWithWarnings(t *testing.T) {
	ui := &testUI{}
	docsGen := &stubDocs{document: docs.Document{
		JSON:     `{"openapi":"3.0.3"}`,
		Warnings: []string{"users/GET: malformed swagger block"},
	}}
	workflow := NewBuildWorkflow(&stubExtractor{tree: testTree(t)}, &stubPackager{}, docsGen, ui)

	result, err := workflow.Run(context.Background(), BuildRequest{Profile: testProfile(t), WithDocs: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(result.DocsPath)
	if err != nil {
		t.Fatalf("read docs: %v", err)
	}
	if string(data) != `{"openapi":"3.0.3"}` {
		t.Errorf("docs content = %s", data)
	}
	if len(ui.warns) != 1 {
		t.Errorf("warns = %v, want the swagger warning", ui.warns)
	}
}

func TestBuildWorkflowExtractionFailureAborts(t *testing.T) {
	extractErr := errors.New("no API directory")
	pack := &stubPackager{}
	workflow := NewBuildWorkflow(&stubExtractor{err: extractErr}, pack, &stubDocs{}, &testUI{})

	_, err := workflow.Run(context.Background(), BuildRequest{Profile: testProfile(t)})
	if !errors.Is(err, extractErr) {
		t.Fatalf("error = %v, want extraction error", err)
	}
	if pack.calls != 0 {
		t.Errorf("packager called after failed extraction")
	}
}

func TestBuildWorkflowPackagingFailureAborts(t *testing.T) {
	packErr := errors.New("zip failed")
	profile := testProfile(t)
	workflow := NewBuildWorkflow(&stubExtractor{tree: testTree(t)}, &stubPackager{err: packErr}, &stubDocs{}, &testUI{})

	_, err := workflow.Run(context.Background(), BuildRequest{Profile: profile})
	if !errors.Is(err, packErr) {
		t.Fatalf("error = %v, want packaging error", err)
	}
	templatesDir := filepath.Join(profile.Path, meta.OutputDir, meta.TemplatesDir)
	if _, statErr := os.Stat(templatesDir); !os.IsNotExist(statErr) {
		t.Errorf("templates written despite packaging failure")
	}
}

func TestBuildWorkflowRequiresProfile(t *testing.T) {
	workflow := NewBuildWorkflow(&stubExtractor{tree: testTree(t)}, &stubPackager{}, &stubDocs{}, nil)
	if _, err := workflow.Run(context.Background(), BuildRequest{}); err == nil {
		t.Fatal("expected error for nil profile")
	}
}
