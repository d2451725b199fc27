package resolve

import (
	"fmt"
	"log/slog"

	"taskbundle/internal/common"
	"taskbundle/internal/conflict"
	"taskbundle/internal/ident"
	"taskbundle/internal/model"
)

// Result is the merged dataset and the decisions that produced it.
type Result struct {
	Tasks    []model.Task
	Boards   []model.Board
	Settings *model.Settings
	Log      []LogEntry
	// BoardIDs maps incoming board ids to the id they were stored under,
	// for boards that were renamed or folded into an existing board.
	BoardIDs IDMap
	// TaskIDs maps incoming task ids to regenerated ids.
	TaskIDs IDMap
}

// Dataset returns the merged collections as a dataset snapshot.
func (r *Result) Dataset() model.Dataset {
	return model.Dataset{Tasks: r.Tasks, Boards: r.Boards, Settings: r.Settings}
}

// Resolver applies resolution options to an incoming bundle.
type Resolver struct {
	options Options
	ids     ident.Generator
	logger  *slog.Logger
}

// NewResolver creates a Resolver. A nil generator means random UUIDs; a nil
// logger means slog.Default().
func NewResolver(options Options, ids ident.Generator, logger *slog.Logger) *Resolver {
	if ids == nil {
		ids = ident.UUID{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{options: options, ids: ids, logger: logger}
}

// Options returns the options the resolver was created with.
func (r *Resolver) Options() Options {
	return r.options
}

// run is the state of one Resolve call.
type run struct {
	*Resolver

	conflicts conflict.Set
	result    *Result

	existingBoardIDs common.Set[string]
	takenBoardIDs    map[string]struct{}
	takenTaskIDs     map[string]struct{}

	// regenerated holds incoming board ids that were duplicates and got a
	// new id. Only these are subject to PreserveRelationships.
	regenerated common.Set[string]
	// existingDefaultID is the first default board of the existing dataset.
	existingDefaultID string
	defaultID         string
}

// Resolve merges incoming into existing using the conflicts found by
// conflict.Detect. Neither input is modified; the result owns its data.
func (r *Resolver) Resolve(incoming *model.Bundle, existing model.Dataset, conflicts conflict.Set) *Result {
	if incoming == nil {
		incoming = &model.Bundle{}
	}

	u := &run{
		Resolver:  r,
		conflicts: conflicts,
		result: &Result{
			Tasks:    model.CloneTasks(existing.Tasks),
			Boards:   model.CloneBoards(existing.Boards),
			Settings: existing.Settings.Clone(),
			Log:      []LogEntry{},
			BoardIDs: IDMap{},
			TaskIDs:  IDMap{},
		},
		existingBoardIDs: common.SetOf(existing.Boards, func(b model.Board) string { return b.ID }),
		takenBoardIDs:    map[string]struct{}{},
		takenTaskIDs:     map[string]struct{}{},
		regenerated:      common.Set[string]{},
	}

	for _, b := range existing.Boards {
		u.takenBoardIDs[b.ID] = struct{}{}

		if b.IsDefault && u.existingDefaultID == "" {
			u.existingDefaultID = b.ID
		}
	}

	for _, b := range incoming.Boards {
		u.takenBoardIDs[b.ID] = struct{}{}
	}

	for _, t := range existing.Tasks {
		u.takenTaskIDs[t.ID] = struct{}{}
	}

	for _, t := range incoming.Tasks {
		u.takenTaskIDs[t.ID] = struct{}{}
	}

	u.resolveBoards(incoming.Boards)
	u.enforceSingleDefault()
	u.resolveTasks(incoming.Tasks)
	u.result.Settings = u.resolveSettings(incoming.Settings, existing.Settings)

	r.logger.Debug("resolved bundle",
		slog.Int("tasks", len(u.result.Tasks)),
		slog.Int("boards", len(u.result.Boards)),
		slog.Int("decisions", len(u.result.Log)))

	return u.result
}

func (u *run) record(entry LogEntry) {
	u.result.Log = append(u.result.Log, entry)
	u.logger.Debug("resolution decision",
		slog.String("type", string(entry.Type)),
		slog.String("item", string(entry.ItemType)),
		slog.String("id", entry.ItemID),
		slog.String("newId", entry.NewID))
}

func (u *run) boardIndex(id string) int {
	for i := range u.result.Boards {
		if u.result.Boards[i].ID == id {
			return i
		}
	}

	return -1
}

func (u *run) taskIndex(id string) int {
	for i := range u.result.Tasks {
		if u.result.Tasks[i].ID == id {
			return i
		}
	}

	return -1
}

func (u *run) resolveBoards(incoming []model.Board) {
	duplicates := common.SetOf(u.conflicts.DuplicateBoardIDs, func(id string) string { return id })

	for _, in := range incoming {
		board := in.Clone()

		if pair, ok := u.conflicts.DefaultConflictFor(board.ID); ok {
			if idx := u.boardIndex(pair.ExistingID); idx >= 0 {
				u.resolveDefaultBoard(board, idx)
				continue
			}
		}

		if !duplicates.Has(board.ID) {
			u.result.Boards = append(u.result.Boards, board)
			continue
		}

		switch u.options.BoardStrategy {
		case StrategySkip:
			u.record(LogEntry{
				Type: EntrySkip, ItemType: ItemBoard, ItemID: board.ID,
				Reason: "Board id already exists; kept the existing board",
			})
		case StrategyOverwrite:
			if idx := u.boardIndex(board.ID); idx >= 0 {
				u.result.Boards[idx] = board
			} else {
				u.result.Boards = append(u.result.Boards, board)
			}

			u.record(LogEntry{
				Type: EntryOverwrite, ItemType: ItemBoard, ItemID: board.ID,
				Reason: "Board id already exists; replaced the existing board",
			})
		default:
			oldID := board.ID
			board.ID = ident.Unique(u.ids, u.takenBoardIDs)
			u.result.BoardIDs[oldID] = board.ID
			u.regenerated.Add(oldID)
			u.result.Boards = append(u.result.Boards, board)
			u.record(LogEntry{
				Type: EntryRegenerateID, ItemType: ItemBoard, ItemID: oldID, NewID: board.ID,
				Reason: "Board id already exists; imported under a new id",
			})
		}
	}
}

// resolveDefaultBoard reconciles an incoming board with the existing
// default board of the same name, stored at idx.
func (u *run) resolveDefaultBoard(board model.Board, idx int) {
	existing := u.result.Boards[idx]

	switch u.options.BoardStrategy {
	case StrategySkip:
		u.result.BoardIDs[board.ID] = existing.ID
		u.record(LogEntry{
			Type: EntrySkip, ItemType: ItemBoard, ItemID: board.ID, NewID: existing.ID,
			Reason: fmt.Sprintf("Folded into existing default board %q", existing.Name),
		})
	case StrategyOverwrite:
		u.result.BoardIDs[board.ID] = existing.ID
		oldID := board.ID
		board.ID = existing.ID
		board.IsDefault = true
		u.result.Boards[idx] = board
		u.record(LogEntry{
			Type: EntryOverwrite, ItemType: ItemBoard, ItemID: oldID, NewID: existing.ID,
			Reason: fmt.Sprintf("Replaced existing default board %q, keeping its id", existing.Name),
		})
	default:
		oldID := board.ID
		board.ID = ident.Unique(u.ids, u.takenBoardIDs)
		board.IsDefault = false
		u.result.BoardIDs[oldID] = board.ID
		u.result.Boards = append(u.result.Boards, board)
		u.record(LogEntry{
			Type: EntryRegenerateID, ItemType: ItemBoard, ItemID: oldID, NewID: board.ID,
			Reason: fmt.Sprintf("Conflicts with existing default board %q; imported under a new id as a regular board", existing.Name),
		})
	}
}

// enforceSingleDefault leaves one default board in the merged set. The
// existing default wins while it is still flagged; otherwise the first
// default board does.
func (u *run) enforceSingleDefault() {
	u.defaultID = ""

	if idx := u.boardIndex(u.existingDefaultID); u.existingDefaultID != "" && idx >= 0 && u.result.Boards[idx].IsDefault {
		u.defaultID = u.existingDefaultID
	}

	for i := range u.result.Boards {
		board := &u.result.Boards[i]
		if !board.IsDefault || board.ID == u.defaultID {
			continue
		}

		if u.defaultID == "" {
			u.defaultID = board.ID
			continue
		}

		board.IsDefault = false
		u.record(LogEntry{
			Type: EntryNormalizeDefault, ItemType: ItemBoard, ItemID: board.ID,
			Reason: fmt.Sprintf("Cleared default flag; board %s stays the default", u.defaultID),
		})
	}
}

// boardReference returns the board id an incoming task should point at.
func (u *run) boardReference(boardID string) (string, bool) {
	newID, ok := u.result.BoardIDs[boardID]
	if !ok {
		return boardID, false
	}

	if u.regenerated.Has(boardID) && !u.options.PreserveRelationships {
		return boardID, false
	}

	return newID, true
}

// fallbackBoard is the board orphans are reassigned to.
func (u *run) fallbackBoard() (string, bool) {
	if u.defaultID != "" {
		return u.defaultID, true
	}

	if first, ok := common.First(u.result.Boards); ok {
		return first.ID, true
	}

	return "", false
}

func (u *run) resolveTasks(incoming []model.Task) {
	duplicates := common.SetOf(u.conflicts.DuplicateTaskIDs, func(id string) string { return id })
	orphans := common.SetOf(u.conflicts.OrphanedTasks, func(id string) string { return id })
	boards := common.SetOf(u.result.Boards, func(b model.Board) string { return b.ID })

	for _, in := range incoming {
		task := in.Clone()

		duplicate := duplicates.Has(task.ID)
		if duplicate && u.options.TaskStrategy == StrategySkip {
			u.record(LogEntry{
				Type: EntrySkip, ItemType: ItemTask, ItemID: task.ID,
				Reason: "Task id already exists; kept the existing task",
			})

			continue
		}

		if newBoardID, remapped := u.boardReference(task.BoardID); remapped {
			u.record(LogEntry{
				Type: EntryRemapReference, ItemType: ItemTask, ItemID: task.ID, NewID: newBoardID,
				Reason: fmt.Sprintf("Board reference %s rewritten", task.BoardID),
			})
			task.BoardID = newBoardID
		}

		if orphans.Has(task.ID) || !boards.Has(task.BoardID) {
			if !u.handleOrphan(&task) {
				continue
			}
		}

		switch {
		case !duplicate:
			u.result.Tasks = append(u.result.Tasks, task)
		case u.options.TaskStrategy == StrategyOverwrite:
			if idx := u.taskIndex(task.ID); idx >= 0 {
				u.result.Tasks[idx] = task
			} else {
				u.result.Tasks = append(u.result.Tasks, task)
			}

			u.record(LogEntry{
				Type: EntryOverwrite, ItemType: ItemTask, ItemID: task.ID,
				Reason: "Task id already exists; replaced the existing task",
			})
		default:
			oldID := task.ID
			task.ID = ident.Unique(u.ids, u.takenTaskIDs)
			u.result.TaskIDs[oldID] = task.ID
			u.result.Tasks = append(u.result.Tasks, task)
			u.record(LogEntry{
				Type: EntryRegenerateID, ItemType: ItemTask, ItemID: oldID, NewID: task.ID,
				Reason: "Task id already exists; imported under a new id",
			})
		}
	}
}

// handleOrphan drops task or moves it to the fallback board. It reports
// whether the task is kept.
func (u *run) handleOrphan(task *model.Task) bool {
	if u.options.OrphanHandling == OrphanReassign {
		if target, ok := u.fallbackBoard(); ok {
			u.record(LogEntry{
				Type: EntryReassign, ItemType: ItemTask, ItemID: task.ID, NewID: target,
				Reason: fmt.Sprintf("Board %s not found; moved to board %s", task.BoardID, target),
			})
			task.BoardID = target

			return true
		}
	}

	u.record(LogEntry{
		Type: EntryDropOrphan, ItemType: ItemTask, ItemID: task.ID,
		Reason: fmt.Sprintf("Board %s not found", task.BoardID),
	})

	return false
}
