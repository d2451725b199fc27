package schema

import (
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"taskbundle/internal/common"
	"taskbundle/internal/diagnostic"
	"taskbundle/internal/match"
)

// suggestScore is the similarity above which a misspelled enum value or
// property name gets a "did you mean" suggestion.
const suggestScore = 0.6

// Diagnostic codes produced by Validate.
const (
	CodeInvalidType     = "invalid_type"
	CodeMissingRequired = "missing_required"
	CodeUnknownProperty = "unknown_property"
	CodeTooManyItems    = "too_many_items"
	CodeTooShort        = "too_short"
	CodeTooLong         = "too_long"
	CodePatternMismatch = "pattern_mismatch"
	CodeInvalidEnum     = "invalid_enum"
	CodeInvalidFormat   = "invalid_format"
	CodeBelowMinimum    = "below_minimum"
	CodeAboveMaximum    = "above_maximum"
	CodeInvalidSchema   = "invalid_schema"
)

// Validate checks value against s depth-first. Every diagnostic carries the
// location of the offending value relative to path. The input is only read.
func Validate(value any, s *Schema, path diagnostic.Path) *diagnostic.Diagnostics {
	diags := &diagnostic.Diagnostics{}
	validate(value, s, path, diags)

	return diags
}

func validate(value any, s *Schema, path diagnostic.Path, diags *diagnostic.Diagnostics) {
	if value == nil || s == nil {
		return
	}

	actual := Type(TypeOf(value))
	if !s.Type.Allows(actual) {
		diags.AddError(CodeInvalidType,
			fmt.Sprintf("Expected %s, got %s", s.Type, actual),
			path.String(), value)

		return
	}

	switch v := value.(type) {
	case map[string]any:
		validateObject(v, s, path, diags)
	case []any:
		validateArray(v, s, path, diags)
	case string:
		validateString(v, s, path, diags)
	default:
		if n, ok := Number(value); ok {
			validateNumber(n, s, path, diags)
		}
	}
}

func validateObject(obj map[string]any, s *Schema, path diagnostic.Path, diags *diagnostic.Diagnostics) {
	for _, name := range s.Required {
		if obj[name] == nil {
			diags.AddError(CodeMissingRequired, "Missing required field: "+name, path.Field(name).String(), nil)
		}
	}

	for _, name := range common.SortedKeys(obj) {
		prop, declared := s.Properties[name]
		if !declared {
			if !s.AllowsAdditional() {
				suggestion := "Remove the property"
				if known, ok := match.Closest(name, common.SortedKeys(s.Properties), suggestScore); ok {
					suggestion = "Rename to " + known
				}

				diags.AddWarning(CodeUnknownProperty, "Unknown property: "+name,
					path.Field(name).String(), suggestion)
			}

			continue
		}

		validate(obj[name], prop, path.Field(name), diags)
	}
}

func validateArray(arr []any, s *Schema, path diagnostic.Path, diags *diagnostic.Diagnostics) {
	if s.MaxItems != nil && len(arr) > *s.MaxItems {
		diags.AddWarning(CodeTooManyItems,
			fmt.Sprintf("Array has %d items, maximum is %d", len(arr), *s.MaxItems),
			path.String(), fmt.Sprintf("Truncate to %d items", *s.MaxItems))
	}

	if s.Items == nil {
		return
	}

	for i, item := range arr {
		validate(item, s.Items, path.Index(i), diags)
	}
}

func validateString(v string, s *Schema, path diagnostic.Path, diags *diagnostic.Diagnostics) {
	length := utf8.RuneCountInString(v)

	if s.MinLength != nil && length < *s.MinLength {
		diags.AddError(CodeTooShort,
			fmt.Sprintf("String is shorter than %d chars", *s.MinLength),
			path.String(), v)
	}

	if s.MaxLength != nil && length > *s.MaxLength {
		diags.AddWarning(CodeTooLong,
			fmt.Sprintf("String is longer than %d chars", *s.MaxLength),
			path.String(), fmt.Sprintf("Truncate to %d chars", *s.MaxLength))
	}

	matched, err := s.MatchPattern(v)

	switch {
	case err != nil:
		diags.AddError(CodeInvalidSchema, err.Error(), path.String(), s.Pattern)
	case !matched:
		diags.AddError(CodePatternMismatch,
			fmt.Sprintf("Value does not match pattern %s", s.Pattern),
			path.String(), v)
	}

	if len(s.Enum) > 0 && !slices.Contains(s.Enum, v) {
		diag := diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Code:     CodeInvalidEnum,
			Message:  fmt.Sprintf("Value must be one of %v", s.Enum),
			Path:     path.String(),
			Value:    v,
		}

		if known, ok := match.Closest(v, s.Enum, suggestScore); ok {
			diag.Suggestion = fmt.Sprintf("Use %q", known)
		}

		diags.Add(diag)
	}

	if s.Format == FormatDateTime && !IsDateTime(v) {
		diags.AddError(CodeInvalidFormat, "Invalid date-time: "+v, path.String(), v)
	}
}

func validateNumber(n float64, s *Schema, path diagnostic.Path, diags *diagnostic.Diagnostics) {
	if s.Minimum != nil && n < *s.Minimum {
		diags.AddError(CodeBelowMinimum,
			fmt.Sprintf("Value must be at least %v", *s.Minimum),
			path.String(), n)
	}

	if s.Maximum != nil && n > *s.Maximum {
		diags.AddError(CodeAboveMaximum,
			fmt.Sprintf("Value must be at most %v", *s.Maximum),
			path.String(), n)
	}
}

// IsDateTime reports whether v is an RFC 3339 timestamp.
func IsDateTime(v string) bool {
	_, err := time.Parse(time.RFC3339Nano, v)
	return err == nil
}
