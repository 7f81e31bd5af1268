package preprocessor

import (
	"errors"
	"strings"
	"testing"
)

func TestApplyKeepsLinesWhenConditionHolds(t *testing.T) {
	src := strings.Join([]string{
		"before",
		"//// IF stage prod",
		"prod only",
		"//// ENDIF",
		"after",
		"",
	}, "\n")

	got, err := Apply(src, map[string]string{"stage": "prod"}, "handler.js")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := "before\nprod only\nafter\n"
	if got != want {
		t.Fatalf("Apply() = %q, want %q", got, want)
	}
}

func TestApplyStripsLinesWhenConditionFails(t *testing.T) {
	// stage=dev removes the enclosed lines entirely.
	src := strings.Join([]string{
		"keep",
		"//// IF stage prod",
		"drop one",
		"drop two",
		"//// ENDIF",
		"keep too",
		"",
	}, "\n")

	got, err := Apply(src, map[string]string{"stage": "dev"}, "handler.js")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := "keep\nkeep too\n"
	if got != want {
		t.Fatalf("Apply() = %q, want %q", got, want)
	}
}

func TestApplyFalseOuterSuppressesNestedTrueBlock(t *testing.T) {
	src := strings.Join([]string{
		"//// IF stage prod",
		"//// IF region us-east-1",
		"nested",
		"//// ENDIF",
		"outer",
		"//// ENDIF",
		"",
	}, "\n")

	got, err := Apply(src, map[string]string{"stage": "dev", "region": "us-east-1"}, "f")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got != "" {
		t.Fatalf("Apply() = %q, want empty", got)
	}
}

func TestApplyNestedConditionsAreANDed(t *testing.T) {
	src := strings.Join([]string{
		"//// IF stage prod",
		"outer",
		"//// IF region eu-west-1",
		"both",
		"//// ENDIF",
		"//// ENDIF",
		"",
	}, "\n")

	got, err := Apply(src, map[string]string{"stage": "prod", "region": "us-east-1"}, "f")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got != "outer\n" {
		t.Fatalf("Apply() = %q, want %q", got, "outer\n")
	}
}

func TestApplyIdempotent(t *testing.T) {
	src := strings.Join([]string{
		"a",
		"//// IF stage prod",
		"b",
		"//// ENDIF",
		"c",
		"",
	}, "\n")
	values := map[string]string{"stage": "prod"}

	once, err := Apply(src, values, "f")
	if err != nil {
		t.Fatalf("first Apply() error = %v", err)
	}
	twice, err := Apply(once, values, "f")
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if once != twice {
		t.Fatalf("not idempotent: %q vs %q", once, twice)
	}
}

func TestApplyDuplicateCondition(t *testing.T) {
	src := strings.Join([]string{
		"//// IF stage prod",
		"//// IF stage prod",
		"x",
		"//// ENDIF",
		"//// ENDIF",
		"",
	}, "\n")

	_, err := Apply(src, map[string]string{"stage": "prod"}, "dup.js")
	var dupErr *DuplicateConditionError
	if !errors.As(err, &dupErr) {
		t.Fatalf("Apply() error = %v, want DuplicateConditionError", err)
	}
	if dupErr.File != "dup.js" || dupErr.Line != 2 {
		t.Fatalf("error context = %s:%d, want dup.js:2", dupErr.File, dupErr.Line)
	}
}

func TestApplyUnbalanced(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"endif without if", "x\n//// ENDIF\n"},
		{"unclosed if", "//// IF stage prod\nx\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Apply(tc.src, nil, "bad.js")
			var unbErr *UnbalancedDirectiveError
			if !errors.As(err, &unbErr) {
				t.Fatalf("Apply() error = %v, want UnbalancedDirectiveError", err)
			}
			if unbErr.File != "bad.js" {
				t.Fatalf("error file = %s, want bad.js", unbErr.File)
			}
		})
	}
}

func TestApplyMissingKeyFailsCondition(t *testing.T) {
	src := "//// IF feature beta\nhidden\n//// ENDIF\n"
	got, err := Apply(src, map[string]string{}, "f")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got != "" {
		t.Fatalf("Apply() = %q, want empty", got)
	}
}

func TestApplyPreservesFileWithoutDirectives(t *testing.T) {
	src := "plain\nlines\nonly\n"
	got, err := Apply(src, map[string]string{"stage": "prod"}, "f")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got != src {
		t.Fatalf("Apply() = %q, want unchanged input", got)
	}
}
