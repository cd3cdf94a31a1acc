// Package schema turns raw generation output into typed, validated analysis
// results. A Contract pairs a task name with the parse-and-check logic for
// one result type; the orchestrator and generation client are generic over
// contracts, so adding an analysis task means adding a contract here and a
// composer function, nothing else.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// syntaxExcerptLimit bounds the raw-text excerpt embedded in a syntax
// diagnostic so a runaway response cannot flood logs or the corrective prompt.
const syntaxExcerptLimit = 160

// Violation is a single contract violation, addressed by JSON field path.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Outcome is the result of validating raw output against a contract: either
// a typed result or an ordered list of violations, never both.
type Outcome[T any] struct {
	Result     *T
	Violations []Violation
}

// Valid reports whether validation produced a typed result.
func (o Outcome[T]) Valid() bool { return o.Result != nil }

// Feedback renders the violations one per line as "path: message", in a
// stable order, suitable for feeding back to the generator.
func (o Outcome[T]) Feedback() string {
	lines := make([]string, len(o.Violations))
	for i, v := range o.Violations {
		lines[i] = fmt.Sprintf("%s: %s", v.Path, v.Message)
	}
	return strings.Join(lines, "\n")
}

// Contract describes the named structural contract a generated result must
// satisfy. verify runs the field-level checks of the decoded value and
// returns all violations found.
type Contract[T any] struct {
	Name   string
	verify func(*T) error
}

// NewContract builds a contract from a task name and a verify function.
// verify should return a validator.ValidationErrors for field violations.
func NewContract[T any](name string, verify func(*T) error) Contract[T] {
	return Contract[T]{Name: name, verify: verify}
}

// Validate parses raw text as JSON and checks it against the contract.
// Two failure classes are distinguished: syntax (not parseable at all, one
// violation with a bounded excerpt) and schema (parseable but violating the
// contract, one violation per offending field). Any violation anywhere makes
// the whole outcome invalid; there is no partial success.
func (c Contract[T]) Validate(raw string) Outcome[T] {
	var result T

	payload := raw
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		// Generators habitually wrap JSON in markdown fences or prose;
		// extract before declaring a syntax failure.
		payload = extractJSON(raw)
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return Outcome[T]{Violations: []Violation{{
				Path:    "$",
				Message: fmt.Sprintf("response is not parseable JSON: %q", excerpt(raw)),
			}}}
		}
	}

	if err := c.verify(&result); err != nil {
		return Outcome[T]{Violations: toViolations(err)}
	}

	return Outcome[T]{Result: &result}
}

// toViolations converts a verify error into itemized violations. Field errors
// keep the validator's registration order, which is deterministic.
func toViolations(err error) []Violation {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Path: "$", Message: err.Error()}}
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			Path:    fieldPath(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return violations
}

// fieldPath strips the root struct name from a validator namespace, leaving
// the JSON path to the offending field (e.g. "deviations[0].severity").
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// describe renders a human-readable message for a field violation.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field is missing or empty"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "severity":
		return fmt.Sprintf("%q is not a valid severity (critical|major|minor|info)", fe.Value())
	case "deviation_kind":
		return fmt.Sprintf("%q is not a valid deviation kind (match|missing|weaker|stronger|different)", fe.Value())
	case "risk_category":
		return fmt.Sprintf("%q is not a valid risk category", fe.Value())
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}

// excerpt bounds raw text for inclusion in a diagnostic.
func excerpt(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) <= syntaxExcerptLimit {
		return trimmed
	}
	return trimmed[:syntaxExcerptLimit] + "..."
}

var fencePatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)```json\\s*(.*?)```"),
	regexp.MustCompile("(?s)```\\s*(.*?)```"),
}

// extractJSON pulls a JSON object out of markdown or mixed prose. It tries
// code fences first, then the outermost brace pair, and falls back to the
// original text.
func extractJSON(content string) string {
	for _, re := range fencePatterns {
		if matches := re.FindStringSubmatch(content); len(matches) > 1 {
			return strings.TrimSpace(matches[1])
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		return content[start : end+1]
	}

	return content
}
