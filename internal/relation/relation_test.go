package relation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbundle/internal/model"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func ts(d time.Duration) model.Timestamp {
	return model.NewTimestamp(t0.Add(d))
}

func progress(v float64) *float64 {
	return &v
}

func task(id, boardID string, status model.Status) model.Task {
	return model.Task{
		ID: id, Title: id, Status: status, BoardID: boardID,
		CreatedAt: ts(0), UpdatedAt: ts(time.Hour),
		Priority: model.PriorityMedium, Tags: []string{},
	}
}

func board(id, name string, isDefault bool) model.Board {
	return model.Board{ID: id, Name: name, Color: "#000000", IsDefault: isDefault, CreatedAt: ts(0), UpdatedAt: ts(0)}
}

func TestValidate_Clean(t *testing.T) {
	b := &model.Bundle{
		Tasks:  []model.Task{task("t1", "b1", model.StatusTodo)},
		Boards: []model.Board{board("b1", "Work", true), board("b2", "Home", false)},
	}

	diags := Validate(b)
	assert.True(t, diags.IsValid())
	assert.Empty(t, diags.Warnings)
}

func TestValidate_DoneTaskWithPartialProgress(t *testing.T) {
	done := task("t1", "b1", model.StatusDone)
	done.Progress = progress(40)

	b := &model.Bundle{Tasks: []model.Task{done}, Boards: []model.Board{board("b1", "Work", true)}}

	diags := Validate(b)
	assert.True(t, diags.IsValid())
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, CodeProgressDoneNotComplete, diags.Warnings[0].Code)
	assert.Equal(t, "tasks[0].progress", diags.Warnings[0].Path)
	assert.Equal(t, "Set progress to 100", diags.Warnings[0].Suggestion)

	assert.InDelta(t, 40.0, *b.Tasks[0].Progress, 0.001, "validation must not change the bundle")
}

func TestValidate_Checks(t *testing.T) {
	todo := task("t2", "b1", model.StatusTodo)
	todo.Progress = progress(10)

	inverted := task("t3", "b1", model.StatusDone)
	inverted.UpdatedAt = ts(-time.Hour)
	inverted.CompletedAt = model.TimestampPtr(t0.Add(-time.Minute))
	inverted.Progress = progress(100)

	b := &model.Bundle{
		Tasks: []model.Task{
			task("t1", "missing", model.StatusInProgress),
			todo,
			inverted,
			task("t1", "b1", model.StatusTodo),
		},
		Boards: []model.Board{
			board("b1", "Work", true),
			board("b2", "  work ", true),
			board("b1", "Other", false),
		},
	}

	diags := Validate(b)

	assert.Equal(t, []string{
		CodeDanglingBoardReference,
		CodeUpdatedBeforeCreated,
		CodeCompletedBeforeCreated,
		CodeDuplicateTaskID,
		CodeDuplicateBoardID,
		CodeProgressTodoNonZero,
		CodeDuplicateBoardName,
		CodeMultipleDefaultBoards,
	}, diags.Codes())

	assert.Equal(t, "tasks[0].boardId", diags.Errors[0].Path)
	assert.Equal(t, "tasks[2].updatedAt", diags.Errors[1].Path)
	assert.Equal(t, "tasks[3].id", diags.Errors[3].Path)
	assert.Equal(t, "boards[2].id", diags.Errors[4].Path)
	assert.Equal(t, "boards[1].name", diags.Warnings[1].Path)
	assert.Equal(t, "boards", diags.Warnings[2].Path)
}

func TestNormalizeProgress(t *testing.T) {
	done := task("t1", "b1", model.StatusDone)
	done.Progress = progress(40)

	todo := task("t2", "b1", model.StatusTodo)
	todo.Progress = progress(25)

	active := task("t3", "b1", model.StatusInProgress)
	active.Progress = progress(60)

	b := &model.Bundle{Tasks: []model.Task{done, todo, active}, Boards: []model.Board{board("b1", "Work", true)}}

	out, changes := NormalizeProgress(b)

	require.Len(t, changes, 2)
	assert.Equal(t, "tasks[0].progress", changes[0].Path)
	assert.Equal(t, "tasks[1].progress", changes[1].Path)

	assert.InDelta(t, 100.0, *out.Tasks[0].Progress, 0.001)
	assert.Nil(t, out.Tasks[1].Progress)
	assert.InDelta(t, 60.0, *out.Tasks[2].Progress, 0.001)

	assert.InDelta(t, 40.0, *b.Tasks[0].Progress, 0.001)
	assert.NotNil(t, b.Tasks[1].Progress)

	assert.Empty(t, Validate(out).Warnings)

	_, again := NormalizeProgress(out)
	assert.Empty(t, again)
}
