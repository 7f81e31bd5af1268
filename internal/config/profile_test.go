package config

import (
	"errors"
	"testing"
	"time"
)

func validOptions() Options {
	return Options{
		Path:     "/srv/myapi",
		Name:     "myapi",
		Deployer: "alice",
		Provider: "aws",
		Profile:  "default",
		Region:   "us-east-1",
		Bucket:   "myapi-artifacts",
		Stage:    "dev",
		Stack:    "myapi-dev",
	}
}

func fixedNow() time.Time {
	return time.Unix(1700000000, 0)
}

func TestNewProfileValid(t *testing.T) {
	profile, err := NewProfile(validOptions(), fixedNow)
	if err != nil {
		t.Fatalf("NewProfile() error = %v", err)
	}
	if profile.Timestamp != 1700000000 {
		t.Fatalf("Timestamp = %d, want 1700000000", profile.Timestamp)
	}
	if profile.Provider != ProviderAWS {
		t.Fatalf("Provider = %q", profile.Provider)
	}
}

func TestNewProfileRequiredFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Options)
	}{
		{"path", func(o *Options) { o.Path = "" }},
		{"name", func(o *Options) { o.Name = "" }},
		{"deployer", func(o *Options) { o.Deployer = "  " }},
		{"provider", func(o *Options) { o.Provider = "" }},
		{"profile", func(o *Options) { o.Profile = "" }},
		{"region", func(o *Options) { o.Region = "" }},
		{"bucket", func(o *Options) { o.Bucket = "" }},
		{"stage", func(o *Options) { o.Stage = "" }},
		{"stack", func(o *Options) { o.Stack = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			opts := validOptions()
			tc.mutate(&opts)
			_, err := NewProfile(opts, fixedNow)
			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("NewProfile() error = %v, want FieldError", err)
			}
			if fieldErr.Field != tc.field {
				t.Fatalf("FieldError.Field = %q, want %q", fieldErr.Field, tc.field)
			}
		})
	}
}

func TestNewProfileRejectsUnknownProvider(t *testing.T) {
	opts := validOptions()
	opts.Provider = "gcp"
	_, err := NewProfile(opts, fixedNow)
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "provider" {
		t.Fatalf("NewProfile() error = %v, want provider FieldError", err)
	}
}

func TestMergeAppliesNonEmptyOverrides(t *testing.T) {
	base := validOptions()
	merged := base.Merge(Options{Stage: "prod", Bucket: ""})
	if merged.Stage != "prod" {
		t.Fatalf("Stage = %q, want prod", merged.Stage)
	}
	if merged.Bucket != base.Bucket {
		t.Fatalf("Bucket = %q, want %q", merged.Bucket, base.Bucket)
	}
}

func TestValuesExposesPreprocessorEnvironment(t *testing.T) {
	profile, err := NewProfile(validOptions(), fixedNow)
	if err != nil {
		t.Fatalf("NewProfile() error = %v", err)
	}
	values := profile.Values()
	if values["stage"] != "dev" || values["region"] != "us-east-1" {
		t.Fatalf("Values() = %v", values)
	}
}
