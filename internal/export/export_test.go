package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbundle/internal/codec"
	"taskbundle/internal/model"
)

var exportTime = time.Date(2024, 3, 1, 22, 15, 0, 0, time.UTC)

func dataset() model.Dataset {
	ts := model.NewTimestamp(exportTime.Add(-24 * time.Hour))

	return model.Dataset{
		Tasks: []model.Task{{
			ID: "t1", Title: "One", Status: model.StatusTodo, BoardID: "b1",
			CreatedAt: ts, UpdatedAt: ts, Priority: model.PriorityLow, Tags: []string{"x"},
		}},
		Boards:   []model.Board{{ID: "b1", Name: "Work", Color: "#abcdef", IsDefault: true, CreatedAt: ts, UpdatedAt: ts}},
		Settings: &model.Settings{Theme: model.ThemeDark, SearchScope: model.SearchAllBoards},
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		categories Category
		format     codec.Format
		want       string
	}{
		{CategoryAll, codec.FormatJSON, "taskbundle-export-all-2024-03-01.json"},
		{CategoryTasks | CategoryBoards, codec.FormatJSON, "taskbundle-export-tasks-boards-2024-03-01.json"},
		{CategorySettings, codec.FormatYAML, "taskbundle-export-settings-2024-03-01.yaml"},
		{CategoryNone, codec.FormatJSON, "taskbundle-export-empty-2024-03-01.json"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.categories, exportTime, tt.format))
		})
	}
}

func TestBuild_SelectsCategories(t *testing.T) {
	d := dataset()

	b := Build(d, CategoryBoards|CategorySettings, exportTime)
	assert.Empty(t, b.Tasks)
	assert.Len(t, b.Boards, 1)
	require.NotNil(t, b.Settings)
	assert.Equal(t, model.CurrentFormatVersion, b.FormatVersion)
	assert.Equal(t, "2024-03-01T22:15:00.000Z", b.ExportedAt.String())

	b.Boards[0].Name = "changed"
	assert.Equal(t, "Work", d.Boards[0].Name)

	none := Build(d, CategoryNone, exportTime)
	assert.Empty(t, none.Tasks)
	assert.Empty(t, none.Boards)
	assert.Nil(t, none.Settings)
}

func TestEncode_RoundTrip(t *testing.T) {
	data, err := Encode(dataset(), CategoryAll, exportTime, codec.FormatJSON)
	require.NoError(t, err)

	decoded, err := codec.DecodeBundle(data)
	require.NoError(t, err)
	assert.Equal(t, dataset().Tasks, decoded.Tasks)
}

func TestParseCategories(t *testing.T) {
	c, err := ParseCategories([]string{"Tasks", " boards"})
	require.NoError(t, err)
	assert.Equal(t, CategoryTasks|CategoryBoards, c)
	assert.Equal(t, "tasks+boards", c.String())

	c, err = ParseCategories([]string{"all"})
	require.NoError(t, err)
	assert.Equal(t, Category(CategoryAll), c)
	assert.Equal(t, []string{"tasks", "boards", "settings"}, c.Names())

	_, err = ParseCategories([]string{"notes"})
	assert.ErrorContains(t, err, `unknown export category "notes"`)
}
