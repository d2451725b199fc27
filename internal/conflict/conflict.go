// Package conflict compares an incoming bundle with the existing dataset
// and lists every identifier, reference and naming collision between them.
package conflict

import (
	"taskbundle/internal/common"
	"taskbundle/internal/match"
	"taskbundle/internal/model"
)

// NameConflict is an incoming board whose name matches an existing board.
type NameConflict struct {
	Name       string `json:"name"`
	IncomingID string `json:"incomingId"`
	ExistingID string `json:"existingId"`
}

// BoardPair links an incoming board to the existing default board it
// should be reconciled with.
type BoardPair struct {
	IncomingID string `json:"incomingId"`
	ExistingID string `json:"existingId"`
}

// Set holds all conflicts found by Detect. Every list follows the order of
// the incoming bundle.
type Set struct {
	DuplicateTaskIDs      []string       `json:"duplicateTaskIds"`
	DuplicateBoardIDs     []string       `json:"duplicateBoardIds"`
	OrphanedTasks         []string       `json:"orphanedTasks"`
	BoardNameConflicts    []NameConflict `json:"boardNameConflicts"`
	DefaultBoardConflicts []BoardPair    `json:"defaultBoardConflicts"`
}

// IsEmpty returns true if no conflicts were found.
func (s Set) IsEmpty() bool {
	return len(s.DuplicateTaskIDs) == 0 &&
		len(s.DuplicateBoardIDs) == 0 &&
		len(s.OrphanedTasks) == 0 &&
		len(s.BoardNameConflicts) == 0 &&
		len(s.DefaultBoardConflicts) == 0
}

// Count returns the total number of conflicts.
func (s Set) Count() int {
	return len(s.DuplicateTaskIDs) + len(s.DuplicateBoardIDs) + len(s.OrphanedTasks) +
		len(s.BoardNameConflicts) + len(s.DefaultBoardConflicts)
}

// DefaultConflictFor returns the default-board pair whose incoming side is
// boardID.
func (s Set) DefaultConflictFor(boardID string) (BoardPair, bool) {
	for _, pair := range s.DefaultBoardConflicts {
		if pair.IncomingID == boardID {
			return pair, true
		}
	}

	return BoardPair{}, false
}

// Detect computes the conflict set of incoming against the existing
// collections. None of the inputs is modified.
func Detect(incoming *model.Bundle, existingTasks []model.Task, existingBoards []model.Board) Set {
	set := Set{
		DuplicateTaskIDs:      []string{},
		DuplicateBoardIDs:     []string{},
		OrphanedTasks:         []string{},
		BoardNameConflicts:    []NameConflict{},
		DefaultBoardConflicts: []BoardPair{},
	}

	if incoming == nil {
		return set
	}

	taskID := func(t model.Task) string { return t.ID }
	boardID := func(b model.Board) string { return b.ID }

	existingTaskIDs := common.SetOf(existingTasks, taskID)
	existingBoardIDs := common.SetOf(existingBoards, boardID)
	incomingBoardIDs := common.SetOf(incoming.Boards, boardID)

	for _, task := range incoming.Tasks {
		if existingTaskIDs.Has(task.ID) {
			set.DuplicateTaskIDs = append(set.DuplicateTaskIDs, task.ID)
		}

		if !existingBoardIDs.Has(task.BoardID) && !incomingBoardIDs.Has(task.BoardID) {
			set.OrphanedTasks = append(set.OrphanedTasks, task.ID)
		}
	}

	for _, board := range incoming.Boards {
		if existingBoardIDs.Has(board.ID) {
			set.DuplicateBoardIDs = append(set.DuplicateBoardIDs, board.ID)
		}
	}

	defaultPaired := common.Set[string]{}

	for _, board := range incoming.Boards {
		for _, existing := range existingBoards {
			if existing.IsDefault && existing.ID != board.ID && match.SameName(board.Name, existing.Name) {
				set.DefaultBoardConflicts = append(set.DefaultBoardConflicts, BoardPair{
					IncomingID: board.ID,
					ExistingID: existing.ID,
				})
				defaultPaired.Add(board.ID)

				break
			}
		}
	}

	for _, board := range incoming.Boards {
		if defaultPaired.Has(board.ID) {
			continue
		}

		for _, existing := range existingBoards {
			// The same board on both sides is an id duplicate, not a name clash.
			if existing.ID == board.ID {
				continue
			}

			if match.SameName(board.Name, existing.Name) {
				set.BoardNameConflicts = append(set.BoardNameConflicts, NameConflict{
					Name:       board.Name,
					IncomingID: board.ID,
					ExistingID: existing.ID,
				})

				break
			}
		}
	}

	return set
}
