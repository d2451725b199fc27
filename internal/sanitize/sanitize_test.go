package sanitize

import (
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbundle/internal/diagnostic"
	"taskbundle/internal/ident"
	"taskbundle/internal/schema"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	opts.IDs = ident.NewSequence("gen")

	return opts
}

func messages(changes []diagnostic.Change) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = c.Message
	}

	return out
}

func TestSanitize_TruncatesOverlongTitle(t *testing.T) {
	task := map[string]any{
		"id": "t1", "title": strings.Repeat("x", 600), "status": "todo", "boardId": "b1",
		"createdAt": "2024-01-01T00:00:00.000Z", "updatedAt": "2024-01-01T00:00:00.000Z",
		"priority": "low", "tags": []any{},
	}

	result := Sanitize(task, schema.Task(), testOptions())

	out := result.Sanitized.(map[string]any)
	assert.Len(t, out["title"], 500)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, "Truncated string to 500 chars", result.Changes[0].Message)
	assert.Equal(t, "title", result.Changes[0].Path)

	assert.Len(t, task["title"], 600, "input must not change")
}

func TestSanitize_MessyTask(t *testing.T) {
	tags := make([]any, 25)
	for i := range tags {
		tags[i] = "tag"
	}
	tags[0] = strings.Repeat("long", 20)

	task := map[string]any{
		"title":     "  Fix   the\tbuild ",
		"boardId":   "b1",
		"createdAt": "2024-01-15",
		"updatedAt": 1704067200000.0,
		"tags":      tags,
		"legacy":    map[string]any{"x": 1.0},
	}

	result := Sanitize(task, schema.Task(), testOptions())
	out := result.Sanitized.(map[string]any)

	assert.NotContains(t, out, "legacy")
	assert.Equal(t, "gen-1", out["id"])
	assert.Equal(t, "todo", out["status"])
	assert.Equal(t, "medium", out["priority"])
	assert.Equal(t, "Fix the build", out["title"])
	assert.Equal(t, "2024-01-15T00:00:00.000Z", out["createdAt"])
	assert.Equal(t, "2024-01-01T00:00:00.000Z", out["updatedAt"])
	assert.Len(t, out["tags"], 20)
	assert.Len(t, out["tags"].([]any)[0], 50)

	assert.ElementsMatch(t, []string{
		"Removed invalid property: legacy",
		"Generated missing id",
		"Set default value for missing field: status",
		"Set default value for missing field: priority",
		"Converted date to ISO-8601",
		"Converted date to ISO-8601",
		"Truncated string to 50 chars",
		"Truncated array to 20 items",
		"Normalized whitespace",
	}, messages(result.Changes), spew.Sdump(result.Changes))

	assert.True(t, schema.Validate(out, schema.Task(), diagnostic.Root).IsValid())
	assert.Contains(t, task, "legacy")
	assert.Len(t, task["tags"], 25)
}

func TestSanitize_OrderOfChanges(t *testing.T) {
	board := map[string]any{
		"id": "b1", "color": "#ffffff", "isDefault": false,
		"createdAt": "2024-01-01T00:00:00Z", "updatedAt": "2024-01-01T00:00:00Z",
		"zzz": true,
	}

	result := Sanitize(board, schema.Board(), testOptions())

	assert.Equal(t, []string{
		"Removed invalid property: zzz",
		"Set default value for missing field: name",
		"Set default value for missing field: order",
	}, messages(result.Changes))

	out := result.Sanitized.(map[string]any)
	assert.Equal(t, "Untitled board", out["name"])
	assert.Equal(t, 0.0, out["order"])
}

func TestSanitize_DateTimeDefaultUsesClock(t *testing.T) {
	s, err := schema.Parse([]byte(`
type: object
required: [at, flags, count]
properties:
  at: {type: string, format: date-time}
  flags: {type: array}
  count: {type: number, minimum: 3}
`))
	require.NoError(t, err)
	require.NoError(t, s.Compile())

	out := Sanitize(map[string]any{}, s, testOptions()).Sanitized.(map[string]any)
	assert.Equal(t, "2024-06-01T12:00:00.000Z", out["at"])
	assert.Equal(t, []any{}, out["flags"])
	assert.Equal(t, 3.0, out["count"])
}

func TestSanitize_OptionsDisabled(t *testing.T) {
	task := map[string]any{
		"title":     "  spaced  ",
		"createdAt": "2024-01-15",
		"extra":     1.0,
	}

	result := Sanitize(task, schema.Task(), Options{})
	assert.Empty(t, result.Changes)
	assert.Equal(t, task, result.Sanitized)
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []struct {
		name  string
		value any
		s     *schema.Schema
	}{
		{
			name: "bundle",
			value: map[string]any{
				"exportedAt": "Mon, 02 Jan 2006 15:04:05 MST",
				"tasks": []any{
					map[string]any{"title": strings.Repeat("ab  ", 200), "tags": []any{" a ", "b"}, "x": 1.0},
					map[string]any{"id": "t2", "description": strings.Repeat("d", 3000)},
				},
				"boards": []any{
					map[string]any{"name": "  Home  ", "color": "#000000"},
				},
				"settings": map[string]any{"theme": "dark"},
				"meta":     "drop me",
			},
			s: schema.Bundle(),
		},
		{
			name:  "unparseable date stays",
			value: map[string]any{"createdAt": "someday", "title": "t"},
			s:     schema.Task(),
		},
		{
			name:  "wrong root type",
			value: []any{"not", "an", "object"},
			s:     schema.Board(),
		},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()

			first := Sanitize(tt.value, tt.s, opts)
			second := Sanitize(first.Sanitized, tt.s, opts)

			assert.Empty(t, second.Changes, spew.Sdump(second.Changes))
			assert.Equal(t, first.Sanitized, second.Sanitized)
		})
	}
}

func TestSanitize_SettingsDefaults(t *testing.T) {
	result := Sanitize(map[string]any{"theme": "light"}, schema.Settings(), testOptions())
	out := result.Sanitized.(map[string]any)

	assert.Equal(t, 30.0, out["autoArchiveDays"])
	assert.Equal(t, true, out["enableNotifications"])
	assert.Equal(t, false, out["reducedMotion"])
	assert.Equal(t, "current-board", out["searchScope"])
	assert.True(t, schema.Validate(out, schema.Settings(), diagnostic.Root).IsValid())
}

func TestParseLooseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-05", "2024-03-05T00:00:00.000Z", true},
		{"2024-03-05 10:11:12", "2024-03-05T10:11:12.000Z", true},
		{" 2024-03-05T10:11:12+02:00 ", "2024-03-05T08:11:12.000Z", true},
		{"Tue Mar 05 2024 10:11:12 GMT+0100 (Central European Standard Time)", "2024-03-05T09:11:12.000Z", true},
		{"03/05/2024", "2024-03-05T00:00:00.000Z", true},
		{"not a date", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseLooseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
