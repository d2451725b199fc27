// Package relation checks consistency rules that span several records of
// one bundle: board references, status and progress agreement, timestamp
// ordering, board naming and default-board uniqueness.
package relation

import (
	"fmt"
	"strings"

	"taskbundle/internal/diagnostic"
	"taskbundle/internal/match"
	"taskbundle/internal/model"
)

// Diagnostic codes produced by Validate.
const (
	CodeDanglingBoardReference  = "dangling_board_reference"
	CodeProgressDoneNotComplete = "progress_done_not_complete"
	CodeProgressTodoNonZero     = "progress_todo_nonzero"
	CodeUpdatedBeforeCreated    = "updated_before_created"
	CodeCompletedBeforeCreated  = "completed_before_created"
	CodeDuplicateBoardName      = "duplicate_board_name"
	CodeMultipleDefaultBoards   = "multiple_default_boards"
	CodeDuplicateTaskID         = "duplicate_task_id"
	CodeDuplicateBoardID        = "duplicate_board_id"
)

var (
	tasksPath  = diagnostic.Root.Field("tasks")
	boardsPath = diagnostic.Root.Field("boards")
)

// Validate runs every check against b. It is a pure function of b and is
// used both on incoming bundles and on merge results.
func Validate(b *model.Bundle) *diagnostic.Diagnostics {
	diags := &diagnostic.Diagnostics{}

	checkBoardReferences(b, diags)
	checkProgress(b, diags)
	checkTimestamps(b, diags)
	checkBoardNames(b, diags)
	checkDefaultBoards(b, diags)
	checkUniqueIDs(b, diags)

	return diags
}

func checkBoardReferences(b *model.Bundle, diags *diagnostic.Diagnostics) {
	boards := make(map[string]struct{}, len(b.Boards))
	for _, board := range b.Boards {
		boards[board.ID] = struct{}{}
	}

	for i, task := range b.Tasks {
		if _, ok := boards[task.BoardID]; !ok {
			diags.AddError(CodeDanglingBoardReference,
				fmt.Sprintf("Task %q references unknown board %q", task.ID, task.BoardID),
				tasksPath.Index(i).Field("boardId").String(), task.BoardID)
		}
	}
}

func checkProgress(b *model.Bundle, diags *diagnostic.Diagnostics) {
	for i, task := range b.Tasks {
		if task.Progress == nil {
			continue
		}

		path := tasksPath.Index(i).Field("progress").String()

		switch {
		case task.Status == model.StatusDone && *task.Progress != 100:
			diags.AddWarning(CodeProgressDoneNotComplete,
				fmt.Sprintf("Task %q is done but progress is %v", task.ID, *task.Progress),
				path, "Set progress to 100")
		case task.Status == model.StatusTodo && *task.Progress > 0:
			diags.AddWarning(CodeProgressTodoNonZero,
				fmt.Sprintf("Task %q is todo but progress is %v", task.ID, *task.Progress),
				path, "Remove progress")
		}
	}
}

func checkTimestamps(b *model.Bundle, diags *diagnostic.Diagnostics) {
	for i, task := range b.Tasks {
		path := tasksPath.Index(i)

		if task.UpdatedAt.Before(task.CreatedAt) {
			diags.AddError(CodeUpdatedBeforeCreated,
				fmt.Sprintf("Task %q was updated (%s) before it was created (%s)", task.ID, task.UpdatedAt, task.CreatedAt),
				path.Field("updatedAt").String(), task.UpdatedAt.String())
		}

		if task.CompletedAt != nil && task.CompletedAt.Before(task.CreatedAt) {
			diags.AddError(CodeCompletedBeforeCreated,
				fmt.Sprintf("Task %q was completed (%s) before it was created (%s)", task.ID, task.CompletedAt, task.CreatedAt),
				path.Field("completedAt").String(), task.CompletedAt.String())
		}
	}
}

func checkBoardNames(b *model.Bundle, diags *diagnostic.Diagnostics) {
	first := make(map[string]int, len(b.Boards))

	for i, board := range b.Boards {
		key := match.NormalizeName(board.Name)

		if j, seen := first[key]; seen {
			diags.AddWarning(CodeDuplicateBoardName,
				fmt.Sprintf("Board name %q is also used by board %q", board.Name, b.Boards[j].ID),
				boardsPath.Index(i).Field("name").String(), "Rename one of the boards")

			continue
		}

		first[key] = i
	}
}

func checkDefaultBoards(b *model.Bundle, diags *diagnostic.Diagnostics) {
	var ids []string

	for _, board := range b.Boards {
		if board.IsDefault {
			ids = append(ids, board.ID)
		}
	}

	if len(ids) > 1 {
		diags.AddWarning(CodeMultipleDefaultBoards,
			fmt.Sprintf("%d boards are marked default: %s", len(ids), strings.Join(ids, ", ")),
			boardsPath.String(), "Keep a single default board")
	}
}

func checkUniqueIDs(b *model.Bundle, diags *diagnostic.Diagnostics) {
	seenTasks := make(map[string]struct{}, len(b.Tasks))

	for i, task := range b.Tasks {
		if _, dup := seenTasks[task.ID]; dup {
			diags.AddError(CodeDuplicateTaskID, fmt.Sprintf("Task id %q is used more than once", task.ID),
				tasksPath.Index(i).Field("id").String(), task.ID)

			continue
		}

		seenTasks[task.ID] = struct{}{}
	}

	seenBoards := make(map[string]struct{}, len(b.Boards))

	for i, board := range b.Boards {
		if _, dup := seenBoards[board.ID]; dup {
			diags.AddError(CodeDuplicateBoardID, fmt.Sprintf("Board id %q is used more than once", board.ID),
				boardsPath.Index(i).Field("id").String(), board.ID)

			continue
		}

		seenBoards[board.ID] = struct{}{}
	}
}
