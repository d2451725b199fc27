// Package codec reads and writes bundle documents in JSON or YAML.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"taskbundle/internal/diagnostic"
	"taskbundle/internal/model"
	"taskbundle/internal/schema"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// IsValid returns true if the format is supported.
func (f Format) IsValid() bool {
	return f == FormatJSON || f == FormatYAML
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// CodeParseError is the diagnostic code of a malformed document.
const CodeParseError = "parse_error"

// ErrEmptyDocument is returned by Parse for input without any content.
var ErrEmptyDocument = errors.New("document is empty")

// Detect guesses the encoding: a document whose first non-blank byte is '{'
// is JSON, anything else is YAML.
func Detect(data []byte) Format {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}

	return FormatYAML
}

// Parse decodes data into the untyped value model the schema validator
// works on (see schema.Normalize).
func Parse(data []byte) (any, Format, error) {
	format := Detect(data)

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, format, ErrEmptyDocument
	}

	var raw any

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, format, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, format, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	return schema.Normalize(raw), format, nil
}

// ParseDiagnostic wraps a Parse failure as the single blocking diagnostic
// reported for malformed input.
func ParseDiagnostic(err error) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Code:     CodeParseError,
		Message:  err.Error(),
		Path:     diagnostic.Root.String(),
	}
}

// Marshal encodes a bundle in the given format.
func Marshal(b *model.Bundle, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal bundle as JSON: %w", err)
		}

		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal bundle as YAML: %w", err)
		}

		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// DecodeBundle parses data and converts it straight into a typed bundle,
// without schema validation or sanitization.
func DecodeBundle(data []byte) (*model.Bundle, error) {
	raw, _, err := Parse(data)
	if err != nil {
		return nil, err
	}

	bundle, diags := model.Decode(raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid bundle: %w", diags.Error())
	}

	return bundle, nil
}
