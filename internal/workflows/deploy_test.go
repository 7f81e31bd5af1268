package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func newDeployFixture(t *testing.T) (DeployWorkflow, *recordStore, *recordSubmitter) {
	t.Helper()
	store := &recordStore{}
	submitter := &recordSubmitter{store: store}
	build := NewBuildWorkflow(&stubExtractor{tree: testTree(t)}, &stubPackager{}, &stubDocs{}, &testUI{})
	workflow := NewDeployWorkflow(build, store, submitter, &testUI{})
	return workflow, store, submitter
}

func TestDeployWorkflowUploadsBeforeSubmit(t *testing.T) {
	workflow, store, submitter := newDeployFixture(t)
	profile := testProfile(t)

	result, err := workflow.Run(context.Background(), DeployRequest{Profile: profile})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 2 artifacts, 2 fragments, 1 aggregate.
	if len(store.keys) != 5 {
		t.Fatalf("uploads = %v, want 5 objects", store.keys)
	}
	if submitter.uploadsSeen != 5 {
		t.Errorf("submit saw %d uploads, want all 5 complete first", submitter.uploadsSeen)
	}
	if submitter.stackName != "my-api-stack" {
		t.Errorf("stack name = %q", submitter.stackName)
	}

	prefix := fmt.Sprintf("%s/%d/", profile.Name, profile.Timestamp)
	for _, key := range store.keys {
		if !strings.HasPrefix(key, prefix) {
			t.Errorf("key %q lacks namespace prefix %q", key, prefix)
		}
	}
	last := store.keys[len(store.keys)-1]
	if !strings.HasSuffix(last, "/templates/template.json") {
		t.Errorf("last upload = %q, want aggregate template", last)
	}
	if result.TemplateURL != fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", profile.Bucket, profile.Region, last) {
		t.Errorf("template URL = %q", result.TemplateURL)
	}
}

func TestDeployWorkflowUploadFailureSkipsSubmit(t *testing.T) {
	workflow, store, submitter := newDeployFixture(t)
	store.err = errors.New("bucket unreachable")

	_, err := workflow.Run(context.Background(), DeployRequest{Profile: testProfile(t)})
	if !errors.Is(err, store.err) {
		t.Fatalf("error = %v, want upload error", err)
	}
	if submitter.stackName != "" {
		t.Errorf("stack submitted despite upload failure")
	}
}

func TestDeployWorkflowBuildFailureSkipsUploads(t *testing.T) {
	store := &recordStore{}
	submitter := &recordSubmitter{store: store}
	extractErr := errors.New("no API directory")
	build := NewBuildWorkflow(&stubExtractor{err: extractErr}, &stubPackager{}, &stubDocs{}, &testUI{})
	workflow := NewDeployWorkflow(build, store, submitter, &testUI{})

	_, err := workflow.Run(context.Background(), DeployRequest{Profile: testProfile(t)})
	if !errors.Is(err, extractErr) {
		t.Fatalf("error = %v, want build error", err)
	}
	if len(store.keys) != 0 {
		t.Errorf("uploads = %v, want none", store.keys)
	}
}

func TestDeployWorkflowSubmitFailure(t *testing.T) {
	workflow, _, submitter := newDeployFixture(t)
	submitter.err = errors.New("insufficient permissions")

	_, err := workflow.Run(context.Background(), DeployRequest{Profile: testProfile(t)})
	if !errors.Is(err, submitter.err) {
		t.Fatalf("error = %v, want submit error", err)
	}
}
