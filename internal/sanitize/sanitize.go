package sanitize

import (
	"fmt"
	"strings"
	"time"

	"taskbundle/internal/common"
	"taskbundle/internal/diagnostic"
	"taskbundle/internal/ident"
	"taskbundle/internal/match"
	"taskbundle/internal/model"
	"taskbundle/internal/schema"
)

// Options selects which fixes are applied.
type Options struct {
	RemoveInvalidFields bool
	FixDateFormats      bool
	NormalizeStrings    bool
	GenerateMissingIDs  bool
	SetDefaultValues    bool

	// Now supplies the timestamp used as a date-time default.
	Now func() time.Time
	// IDs supplies identifiers for missing identifier fields.
	IDs ident.Generator
}

// DefaultOptions enables every fix, with the wall clock and UUIDs.
func DefaultOptions() Options {
	return Options{
		RemoveInvalidFields: true,
		FixDateFormats:      true,
		NormalizeStrings:    true,
		GenerateMissingIDs:  true,
		SetDefaultValues:    true,
		Now:                 time.Now,
		IDs:                 ident.UUID{},
	}
}

// Result is the outcome of Sanitize.
type Result struct {
	Sanitized any
	Changes   []diagnostic.Change
}

// Changed reports whether anything was modified.
func (r Result) Changed() bool {
	return len(r.Changes) > 0
}

// Sanitize returns a repaired copy of value. Values whose type the schema
// does not allow are copied unchanged; the validator reports them.
func Sanitize(value any, s *schema.Schema, opts Options) Result {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if opts.IDs == nil {
		opts.IDs = ident.UUID{}
	}

	z := &sanitizer{opts: opts}
	out := z.value(value, s, diagnostic.Root)

	return Result{Sanitized: out, Changes: z.changes}
}

type sanitizer struct {
	opts    Options
	changes []diagnostic.Change
}

func (z *sanitizer) record(path diagnostic.Path, message string) {
	z.changes = append(z.changes, diagnostic.Change{Path: path.String(), Message: message})
}

func (z *sanitizer) value(v any, s *schema.Schema, path diagnostic.Path) any {
	if v == nil || s == nil {
		return schema.Normalize(v)
	}

	switch x := v.(type) {
	case map[string]any:
		if s.Type.Allows(schema.TypeObject) {
			return z.object(x, s, path)
		}
	case []any:
		if s.Type.Allows(schema.TypeArray) {
			return z.array(x, s, path)
		}
	case string:
		if s.Type.Allows(schema.TypeString) {
			return z.str(x, s, path)
		}
	default:
		if n, ok := schema.Number(v); ok && z.isDateField(s) && !s.Type.Allows(schema.TypeNumber) {
			return z.epochDate(n, path)
		}
	}

	return schema.Normalize(v)
}

func (z *sanitizer) object(obj map[string]any, s *schema.Schema, path diagnostic.Path) map[string]any {
	out := make(map[string]any, len(obj))

	for _, name := range common.SortedKeys(obj) {
		if z.opts.RemoveInvalidFields && !s.AllowsAdditional() {
			if _, declared := s.Properties[name]; !declared {
				z.record(path.Field(name), "Removed invalid property: "+name)
				continue
			}
		}

		out[name] = obj[name]
	}

	for _, name := range s.Required {
		if out[name] != nil {
			continue
		}

		if def, message, ok := z.defaultFor(name, s.Properties[name]); ok {
			out[name] = def
			z.record(path.Field(name), message)
		}
	}

	for _, name := range common.SortedKeys(out) {
		out[name] = z.value(out[name], s.Properties[name], path.Field(name))
	}

	return out
}

// defaultFor picks the value injected for a missing required field.
// Plain strings without a declared default get nothing.
func (z *sanitizer) defaultFor(name string, prop *schema.Schema) (any, string, bool) {
	if prop == nil {
		return nil, "", false
	}

	if prop.Identifier {
		if !z.opts.GenerateMissingIDs {
			return nil, "", false
		}

		return z.opts.IDs.NewID(), "Generated missing " + name, true
	}

	if !z.opts.SetDefaultValues {
		return nil, "", false
	}

	message := "Set default value for missing field: " + name

	if def, ok := prop.DefaultValue(); ok {
		return def, message, true
	}

	switch {
	case len(prop.Enum) > 0:
		return prop.Enum[0], message, true
	case prop.Format == schema.FormatDateTime:
		return model.NewTimestamp(z.opts.Now()).String(), message, true
	case prop.Is(schema.TypeArray):
		return []any{}, message, true
	case prop.Is(schema.TypeObject):
		return map[string]any{}, message, true
	case prop.Is(schema.TypeBoolean):
		return false, message, true
	case prop.Is(schema.TypeNumber):
		if prop.Minimum != nil {
			return *prop.Minimum, message, true
		}

		return 0.0, message, true
	default:
		return nil, "", false
	}
}

func (z *sanitizer) array(arr []any, s *schema.Schema, path diagnostic.Path) []any {
	out := make([]any, len(arr))
	for i, item := range arr {
		out[i] = z.value(item, s.Items, path.Index(i))
	}

	if s.MaxItems != nil && len(out) > *s.MaxItems {
		out = out[:*s.MaxItems]
		z.record(path, fmt.Sprintf("Truncated array to %d items", *s.MaxItems))
	}

	return out
}

func (z *sanitizer) str(v string, s *schema.Schema, path diagnostic.Path) string {
	if z.isDateField(s) && !schema.IsDateTime(v) {
		if fixed, ok := parseLooseDate(v); ok {
			v = fixed
			z.record(path, "Converted date to ISO-8601")
		}
	}

	if s.MaxLength != nil {
		if cut, truncated := match.Truncate(v, *s.MaxLength); truncated {
			v = cut
			z.record(path, fmt.Sprintf("Truncated string to %d chars", *s.MaxLength))
		}
	}

	if z.opts.NormalizeStrings {
		if normalized := match.CollapseWhitespace(v); normalized != v {
			v = normalized
			z.record(path, "Normalized whitespace")
		}
	}

	return v
}

func (z *sanitizer) isDateField(s *schema.Schema) bool {
	return z.opts.FixDateFormats && s.Format == schema.FormatDateTime
}

// epochDate converts a number in a date-time field, read as Unix
// milliseconds.
func (z *sanitizer) epochDate(ms float64, path diagnostic.Path) string {
	z.record(path, "Converted date to ISO-8601")
	return model.NewTimestamp(time.UnixMilli(int64(ms))).String()
}

var looseDateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.RFC822Z,
	time.RFC822,
	time.ANSIC,
	"Mon Jan 2 2006 15:04:05 GMT-0700",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

// parseLooseDate recognizes common non-RFC 3339 renderings of a date and
// returns the canonical bundle form. Zone-less values are read as UTC.
func parseLooseDate(v string) (string, bool) {
	trimmed := strings.TrimSpace(v)
	if schema.IsDateTime(trimmed) {
		ts, err := model.ParseTimestamp(trimmed)
		if err != nil {
			return "", false
		}

		return ts.String(), true
	}

	// Strip a trailing "(Zone Name)" as written by JavaScript Date.toString.
	if i := strings.Index(trimmed, " ("); i > 0 && strings.HasSuffix(trimmed, ")") {
		trimmed = trimmed[:i]
	}

	for _, layout := range looseDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return model.NewTimestamp(t).String(), true
		}
	}

	return "", false
}
