package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTimestamp_JSONRoundTrip(t *testing.T) {
	original := NewTimestamp(time.Date(2024, 3, 1, 9, 30, 15, 123456789, time.FixedZone("CET", 3600)))

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01T08:30:15.123Z"`, string(data))

	var decoded Timestamp
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equal(decoded.Time), "got %s", decoded)
	assert.Equal(t, 123*int(time.Millisecond), decoded.Nanosecond())
}

func TestTimestamp_YAMLRoundTrip(t *testing.T) {
	type holder struct {
		At Timestamp `yaml:"at"`
	}

	original := holder{At: NewTimestamp(time.Date(2023, 12, 31, 23, 59, 59, 999000000, time.UTC))}

	data, err := yaml.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"2023-12-31T23:59:59.999Z"`)

	var decoded holder
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.True(t, original.At.Equal(decoded.At.Time))
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2024-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T03:04:05.000Z", ts.String())

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestDecode_Valid(t *testing.T) {
	raw := map[string]any{
		"version":    "1.0.0",
		"exportedAt": "2024-05-01T10:00:00.000Z",
		"tasks": []any{
			map[string]any{
				"id": "t1", "title": "Write tests", "status": "done", "boardId": "b1",
				"createdAt": "2024-04-01T10:00:00.000Z", "updatedAt": "2024-04-02T10:00:00.000Z",
				"completedAt": "2024-04-02T10:00:00.000Z",
				"priority":    "high", "tags": []any{"dev", "qa"}, "progress": 100.0,
			},
		},
		"boards": []any{
			map[string]any{
				"id": "b1", "name": "Work", "color": "#112233", "isDefault": true, "order": 0.0,
				"createdAt": "2024-04-01T10:00:00.000Z", "updatedAt": "2024-04-01T10:00:00.000Z",
			},
		},
		"settings": map[string]any{
			"theme": "dark", "autoArchiveDays": 30.0, "enableNotifications": true,
			"reducedMotion": false, "highContrast": false, "searchScope": "all-boards",
		},
	}

	bundle, diags := Decode(raw)
	require.True(t, diags.IsValid(), "unexpected errors: %v", diags.Errors)

	require.Len(t, bundle.Tasks, 1)
	task := bundle.Tasks[0]
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, StatusDone, task.Status)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, []string{"dev", "qa"}, task.Tags)
	require.NotNil(t, task.Progress)
	assert.InDelta(t, 100.0, *task.Progress, 0.001)
	require.NotNil(t, task.CompletedAt)
	assert.Nil(t, task.ArchivedAt)

	require.Len(t, bundle.Boards, 1)
	assert.True(t, bundle.Boards[0].IsDefault)

	require.NotNil(t, bundle.Settings)
	assert.Equal(t, ThemeDark, bundle.Settings.Theme)
	assert.Equal(t, SearchAllBoards, bundle.Settings.SearchScope)
}

func TestDecode_ShapeErrors(t *testing.T) {
	raw := map[string]any{
		"version":    "1.0.0",
		"exportedAt": "not a date",
		"tasks": []any{
			map[string]any{"id": 7.0, "title": "x", "status": "blocked", "boardId": "b1",
				"createdAt": "2024-04-01T10:00:00Z", "updatedAt": "2024-04-01T10:00:00Z",
				"priority": "low", "tags": []any{"ok", 3.0}},
			"not an object",
		},
	}

	bundle, diags := Decode(raw)
	assert.False(t, diags.IsValid())
	assert.Len(t, bundle.Tasks, 2)

	paths := map[string]string{}
	for _, e := range diags.Errors {
		paths[e.Path] = e.Code
	}

	assert.Equal(t, "invalid_format", paths["exportedAt"])
	assert.Equal(t, "invalid_type", paths["tasks[0].id"])
	assert.Equal(t, "invalid_enum", paths["tasks[0].status"])
	assert.Equal(t, "invalid_type", paths["tasks[0].tags[1]"])
	assert.Equal(t, "invalid_type", paths["tasks[1]"])
	assert.Equal(t, "missing_required", paths["boards"])
}

func TestDecode_NotAnObject(t *testing.T) {
	_, diags := Decode([]any{})
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, "Expected object, got array", diags.Errors[0].Message)
}

func TestClone_Independent(t *testing.T) {
	progress := 40.0
	b := &Bundle{
		Tasks:    []Task{{ID: "t1", Tags: []string{"a"}, Progress: &progress, CompletedAt: TimestampPtr(time.Now())}},
		Boards:   []Board{{ID: "b1", ArchivedAt: TimestampPtr(time.Now())}},
		Settings: &Settings{Theme: ThemeLight},
	}

	c := b.Clone()
	c.Tasks[0].Tags[0] = "changed"
	*c.Tasks[0].Progress = 99
	c.Settings.Theme = ThemeDark

	assert.Equal(t, "a", b.Tasks[0].Tags[0])
	assert.InDelta(t, 40.0, *b.Tasks[0].Progress, 0.001)
	assert.Equal(t, ThemeLight, b.Settings.Theme)
	assert.NotSame(t, b.Boards[0].ArchivedAt, c.Boards[0].ArchivedAt)
}

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, CheckVersion("1.0.0"))
	assert.NoError(t, CheckVersion("1.4.2"))
	assert.NoError(t, CheckVersion("v1.0.0"))
	assert.ErrorIs(t, CheckVersion("2.0.0"), ErrUnsupportedVersion)
	assert.ErrorIs(t, CheckVersion("one"), ErrInvalidVersion)
	assert.ErrorIs(t, CheckVersion(""), ErrInvalidVersion)
}
