// Where: cli/internal/docs/render.go
// What: OpenAPI document assembly from the deployment graph.
// Why: Documentation reuses the build's structure; generation is
//      best-effort and never fails the build.
package docs

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/graph"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Document is a rendered OpenAPI description plus any non-fatal scan
// warnings the caller should surface.
type Document struct {
	JSON     string
	Warnings []string
}

type templateData struct {
	Name        string
	Title       string
	Description string
	Version     string
	PathsJSON   string
}

// Generate assembles the OpenAPI document for the graph. Endpoint sources
// with a swagger block contribute their own operation objects; the rest
// get a minimal generated one. Scan failures degrade to warnings.
func Generate(profile *config.Profile, g *graph.Graph) (Document, error) {
	var warnings []string

	paths := map[string]map[string]any{}
	for _, endpoint := range g.Endpoints {
		docPath := "/" + endpoint.ResourcePath
		if endpoint.ResourcePath == "" {
			docPath = "/"
		}
		operation, err := ScanEndpoint(endpoint.SourcePath)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s %s: %v", endpoint.Verb, docPath, err))
			operation = nil
		}
		if operation != nil {
			if _, marshalErr := json.Marshal(operation); marshalErr != nil {
				warnings = append(warnings, fmt.Sprintf("%s %s: unusable swagger block: %v", endpoint.Verb, docPath, marshalErr))
				operation = nil
			}
		}
		if operation == nil {
			operation = defaultOperation(endpoint)
		}
		if paths[docPath] == nil {
			paths[docPath] = map[string]any{}
		}
		paths[docPath][strings.ToLower(string(endpoint.Verb))] = operation
	}

	pathsJSON, err := marshalSorted(paths)
	if err != nil {
		return Document{}, fmt.Errorf("marshal paths: %w", err)
	}

	tmpl, err := template.New("openapi.json.tmpl").
		Funcs(sprig.TxtFuncMap()).
		ParseFS(templateFS, "templates/openapi.json.tmpl")
	if err != nil {
		return Document{}, fmt.Errorf("parse openapi template: %w", err)
	}

	var out bytes.Buffer
	err = tmpl.Execute(&out, templateData{
		Name:        profile.Name,
		Title:       profile.Title,
		Description: profile.Description,
		Version:     profile.Version,
		PathsJSON:   pathsJSON,
	})
	if err != nil {
		return Document{}, fmt.Errorf("render openapi template: %w", err)
	}

	// Re-encode so the final document is uniformly indented regardless of
	// template whitespace.
	var doc any
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		return Document{}, fmt.Errorf("rendered document is not valid JSON: %w", err)
	}
	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Document{}, err
	}

	sort.Strings(warnings)
	return Document{JSON: string(pretty) + "\n", Warnings: warnings}, nil
}

func defaultOperation(endpoint *graph.EndpointDescriptor) map[string]any {
	return map[string]any{
		"summary":     fmt.Sprintf("%s %s", endpoint.Verb, "/"+endpoint.ResourcePath),
		"operationId": endpoint.ID.Short(),
		"responses": map[string]any{
			"200": map[string]any{"description": "Success"},
		},
	}
}

func marshalSorted(paths map[string]map[string]any) (string, error) {
	data, err := json.Marshal(paths)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
