// Where: cli/internal/cfn/template.go
// What: CloudFormation template model and intrinsic helpers.
// Why: Typed assembly instead of string-built JSON.
package cfn

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Template is a CloudFormation template document.
type Template struct {
	AWSTemplateFormatVersion string               `json:"AWSTemplateFormatVersion"`
	Description              string               `json:"Description,omitempty"`
	Parameters               map[string]Parameter `json:"Parameters,omitempty"`
	Resources                map[string]Resource  `json:"Resources"`
	Outputs                  map[string]Output    `json:"Outputs,omitempty"`
}

// Parameter declares a template input.
type Parameter struct {
	Type        string `json:"Type"`
	Description string `json:"Description,omitempty"`
}

// Resource is one template resource. DependsOn carries explicit ordering
// edges beyond what Ref/GetAtt already imply.
type Resource struct {
	Type       string         `json:"Type"`
	Properties map[string]any `json:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty"`
}

// Output exposes a template value.
type Output struct {
	Description string `json:"Description,omitempty"`
	Value       any    `json:"Value"`
}

const formatVersion = "2010-09-09"

// NewTemplate returns an empty template with the standard format version.
func NewTemplate(description string) Template {
	return Template{
		AWSTemplateFormatVersion: formatVersion,
		Description:              description,
		Resources:                map[string]Resource{},
	}
}

// Ref builds a {"Ref": name} intrinsic.
func Ref(name string) map[string]any {
	return map[string]any{"Ref": name}
}

// GetAtt builds a {"Fn::GetAtt": [logical, attr]} intrinsic.
func GetAtt(logical, attr string) map[string]any {
	return map[string]any{"Fn::GetAtt": []string{logical, attr}}
}

// Sub builds a {"Fn::Sub": expr} intrinsic.
func Sub(expr string) map[string]any {
	return map[string]any{"Fn::Sub": expr}
}

// Write renders the template as indented JSON at path. The file lands via
// a temp-file rename so readers never observe a partial template.
func Write(path string, tmpl Template) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create template directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".template-*.json")
	if err != nil {
		return fmt.Errorf("create temp template file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	encoder := json.NewEncoder(tmp)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(tmpl); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("encode template: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp template file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp template file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("commit template file: %w", err)
	}
	return nil
}
