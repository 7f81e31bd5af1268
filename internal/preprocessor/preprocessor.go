// Where: cli/internal/preprocessor/preprocessor.go
// What: Line-oriented conditional preprocessor for staged source files.
// Why: Strip environment-specific lines before packaging without touching
//      the original source tree.
package preprocessor

import (
	"fmt"
	"strings"
)

// DirectiveMarker introduces a preprocessor directive line. The marker plus
// IF/ENDIF keyword must be the only content on the line.
const DirectiveMarker = "////"

// Operator compares a configuration value against an expected value.
// Only equality is defined today; the operator travels with the condition
// so the directive grammar can grow without changing the stack model.
type Operator string

const OpEquals Operator = "="

// Condition is one active IF scope: config[Key] Op Value.
type Condition struct {
	Key   string
	Op    Operator
	Value string
}

func (c Condition) holds(values map[string]string) bool {
	return values[c.Key] == c.Value
}

// DuplicateConditionError reports an IF pushing a condition identical to
// one already active in the same file.
type DuplicateConditionError struct {
	File      string
	Line      int
	Condition Condition
}

func (e *DuplicateConditionError) Error() string {
	return fmt.Sprintf("%s:%d: duplicate condition %s %s %s",
		e.File, e.Line, e.Condition.Key, e.Condition.Op, e.Condition.Value)
}

// UnbalancedDirectiveError reports an ENDIF without an open IF, or a file
// ending with unclosed IF blocks.
type UnbalancedDirectiveError struct {
	File   string
	Line   int
	Reason string
}

func (e *UnbalancedDirectiveError) Error() string {
	return fmt.Sprintf("%s:%d: unbalanced directive: %s", e.File, e.Line, e.Reason)
}

// Apply filters src against values. Content lines survive only while every
// condition on the stack holds; directive lines never appear in the output.
// name is used for error context only.
func Apply(src string, values map[string]string, name string) (string, error) {
	var out strings.Builder
	var stack []Condition

	lines := strings.Split(src, "\n")
	// Splitting "a\n" yields a trailing empty element; remember whether the
	// input ended with a newline so the output round-trips.
	trailingNewline := strings.HasSuffix(src, "\n")
	if trailingNewline {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		lineNo := i + 1
		directive, ok := parseDirective(line)
		if !ok {
			if allHold(stack, values) {
				out.WriteString(line)
				out.WriteString("\n")
			}
			continue
		}

		switch directive.kind {
		case kindIf:
			cond := Condition{Key: directive.key, Op: OpEquals, Value: directive.value}
			for _, active := range stack {
				if active == cond {
					return "", &DuplicateConditionError{File: name, Line: lineNo, Condition: cond}
				}
			}
			stack = append(stack, cond)
		case kindEndif:
			if len(stack) == 0 {
				return "", &UnbalancedDirectiveError{File: name, Line: lineNo, Reason: "ENDIF without matching IF"}
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		return "", &UnbalancedDirectiveError{
			File:   name,
			Line:   len(lines),
			Reason: fmt.Sprintf("%d IF block(s) left open at end of file", len(stack)),
		}
	}

	result := out.String()
	if !trailingNewline {
		result = strings.TrimSuffix(result, "\n")
	}
	return result, nil
}

type directiveKind int

const (
	kindIf directiveKind = iota
	kindEndif
)

type directive struct {
	kind  directiveKind
	key   string
	value string
}

func parseDirective(line string) (directive, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, DirectiveMarker) {
		return directive{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(trimmed, DirectiveMarker))
	if len(fields) == 0 {
		return directive{}, false
	}
	switch fields[0] {
	case "IF":
		if len(fields) != 3 {
			return directive{}, false
		}
		return directive{kind: kindIf, key: fields[1], value: fields[2]}, true
	case "ENDIF":
		if len(fields) != 1 {
			return directive{}, false
		}
		return directive{kind: kindEndif}, true
	}
	return directive{}, false
}

func allHold(stack []Condition, values map[string]string) bool {
	for _, cond := range stack {
		if !cond.holds(values) {
			return false
		}
	}
	return true
}
