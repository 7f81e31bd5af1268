// Where: cli/internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep naming and layout conventions in one place.
package meta

const (
	// Project Identity
	AppName   = "tlaloc"
	EnvPrefix = "TLALOC"

	// Directory Layout
	// APIDir is the conventioned subfolder inside the source root whose
	// directory tree encodes the API topology.
	APIDir       = "API"
	OutputDir    = ".tlaloc"
	StagingDir   = "staging"
	ArtifactsDir = "artifacts"
	TemplatesDir = "templates"
	DocsDir      = "docs"

	// Generated file names
	AggregateTemplateFile = "template.json"
	OpenAPIFile           = "openapi.json"
)
