// Where: cli/internal/docs/swagger.go
// What: Embedded swagger comment block extraction.
// Why: Endpoint sources may carry their own operation documentation.
package docs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	blockStart = "/** swagger"
	blockEnd   = "*/"
)

// ExtractBlock returns the machine-readable body between the swagger
// marker and its closing comment, if the source contains one.
func ExtractBlock(src string) (string, bool) {
	start := strings.Index(src, blockStart)
	if start < 0 {
		return "", false
	}
	rest := src[start+len(blockStart):]
	end := strings.Index(rest, blockEnd)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// ScanEndpoint looks through the endpoint source directory for the first
// file carrying a swagger block and decodes its body (YAML or JSON) into
// an operation object. Returns nil when no block exists.
func ScanEndpoint(dir string) (map[string]any, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		body, ok := ExtractBlock(string(raw))
		if !ok {
			continue
		}
		var operation map[string]any
		if err := yaml.Unmarshal([]byte(body), &operation); err != nil {
			return nil, fmt.Errorf("%s: decode swagger block: %w", path, err)
		}
		for key, value := range operation {
			operation[key] = normalizeValue(value)
		}
		return operation, nil
	}
	return nil, nil
}

// normalizeValue rewrites a decoded YAML value so every map key is a
// string. An unquoted numeric key (a bare "200:" response status) decodes
// to map[interface{}]interface{}, which the JSON encoder rejects.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = normalizeValue(item)
		}
		return v
	case map[any]any:
		normalized := make(map[string]any, len(v))
		for key, item := range v {
			normalized[fmt.Sprint(key)] = normalizeValue(item)
		}
		return normalized
	case []any:
		for i, item := range v {
			v[i] = normalizeValue(item)
		}
		return v
	default:
		return value
	}
}
