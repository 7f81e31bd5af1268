// Where: cli/internal/config/profile.go
// What: Validated build configuration profile.
// Why: Every build phase reads one immutable, fully-validated settings value.
package config

import (
	"fmt"
	"strings"
	"time"
)

// ProviderAWS is the only supported provider value.
const ProviderAWS = "aws"

// FieldError reports a missing or malformed configuration field. One
// distinct error per field so callers can tell exactly what to fix.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("configuration field %q: %s", e.Field, e.Reason)
}

// Options is the raw, unvalidated configuration surface as read from the
// profile file and CLI flags.
type Options struct {
	Path        string `yaml:"path"`
	Name        string `yaml:"name"`
	Deployer    string `yaml:"deployer"`
	Provider    string `yaml:"provider"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	Profile     string `yaml:"profile"`
	Region      string `yaml:"region"`
	Bucket      string `yaml:"bucket"`
	Stage       string `yaml:"stage"`
	Stack       string `yaml:"stack"`
}

// Merge returns a copy of o with non-empty fields from override applied.
func (o Options) Merge(override Options) Options {
	merged := o
	apply := func(dst *string, src string) {
		if strings.TrimSpace(src) != "" {
			*dst = src
		}
	}
	apply(&merged.Path, override.Path)
	apply(&merged.Name, override.Name)
	apply(&merged.Deployer, override.Deployer)
	apply(&merged.Provider, override.Provider)
	apply(&merged.Title, override.Title)
	apply(&merged.Description, override.Description)
	apply(&merged.Version, override.Version)
	apply(&merged.Profile, override.Profile)
	apply(&merged.Region, override.Region)
	apply(&merged.Bucket, override.Bucket)
	apply(&merged.Stage, override.Stage)
	apply(&merged.Stack, override.Stack)
	return merged
}

// Profile is the immutable, validated configuration for one build session.
type Profile struct {
	Path        string
	Name        string
	Deployer    string
	Provider    string
	Title       string
	Description string
	Version     string
	AWSProfile  string
	Region      string
	Bucket      string
	Stage       string
	Stack       string

	// Timestamp is assigned once at construction. It namespaces uploaded
	// object keys so consecutive deploys never overwrite each other.
	Timestamp int64
}

// NewProfile validates opts and returns a complete profile, or the first
// field error encountered. Construction never yields a partial profile.
func NewProfile(opts Options, now func() time.Time) (*Profile, error) {
	if now == nil {
		now = time.Now
	}

	required := []struct {
		field string
		value string
	}{
		{"path", opts.Path},
		{"name", opts.Name},
		{"deployer", opts.Deployer},
		{"provider", opts.Provider},
		{"profile", opts.Profile},
		{"region", opts.Region},
		{"bucket", opts.Bucket},
		{"stage", opts.Stage},
		{"stack", opts.Stack},
	}
	for _, req := range required {
		if strings.TrimSpace(req.value) == "" {
			return nil, &FieldError{Field: req.field, Reason: "required value is missing or empty"}
		}
	}
	if opts.Provider != ProviderAWS {
		return nil, &FieldError{
			Field:  "provider",
			Reason: fmt.Sprintf("unsupported provider %q (only %q is supported)", opts.Provider, ProviderAWS),
		}
	}

	return &Profile{
		Path:        opts.Path,
		Name:        opts.Name,
		Deployer:    opts.Deployer,
		Provider:    opts.Provider,
		Title:       opts.Title,
		Description: opts.Description,
		Version:     opts.Version,
		AWSProfile:  opts.Profile,
		Region:      opts.Region,
		Bucket:      opts.Bucket,
		Stage:       opts.Stage,
		Stack:       opts.Stack,
		Timestamp:   now().Unix(),
	}, nil
}

// Values exposes the profile as the key/value environment the preprocessor
// evaluates IF conditions against.
func (p *Profile) Values() map[string]string {
	return map[string]string{
		"path":        p.Path,
		"name":        p.Name,
		"deployer":    p.Deployer,
		"provider":    p.Provider,
		"title":       p.Title,
		"description": p.Description,
		"version":     p.Version,
		"profile":     p.AWSProfile,
		"region":      p.Region,
		"bucket":      p.Bucket,
		"stage":       p.Stage,
		"stack":       p.Stack,
	}
}
