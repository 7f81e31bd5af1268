// Where: cli/internal/config/loader.go
// What: Profile file loading with schema validation.
// Why: Reject malformed profiles before any build phase runs.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	sigsyaml "sigs.k8s.io/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema/profile.schema.json
var profileSchemaJSON []byte

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// LoadOptions reads a YAML profile file, validates it against the embedded
// JSON schema, and decodes it into Options.
func LoadOptions(path string) (Options, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read profile: %w", err)
	}
	return parseOptions(content)
}

func parseOptions(content []byte) (Options, error) {
	sch, err := loadSchema()
	if err != nil {
		return Options{}, err
	}

	jsonData, err := sigsyaml.YAMLToJSON(content)
	if err != nil {
		return Options{}, fmt.Errorf("convert yaml to json: %w", err)
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return Options{}, fmt.Errorf("unmarshal json: %w", err)
	}
	if err := sch.Validate(document); err != nil {
		return Options{}, fmt.Errorf("profile schema: %w", err)
	}

	var opts Options
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&opts); err != nil {
		return Options{}, fmt.Errorf("decode profile: %w", err)
	}
	return opts, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("profile.schema.json", bytes.NewReader(profileSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("profile.schema.json")
	})
	return compiledSchema, schemaErr
}
