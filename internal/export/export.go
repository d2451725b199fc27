// Package export builds bundles from a dataset and names the files they
// are written to.
package export

import (
	"fmt"
	"strings"
	"time"

	"taskbundle/internal/codec"
	"taskbundle/internal/model"
)

// FilePrefix starts every generated export file name.
const FilePrefix = "taskbundle-export"

// Build returns a bundle holding copies of the selected categories of d.
func Build(d model.Dataset, categories Category, now time.Time) *model.Bundle {
	b := &model.Bundle{
		FormatVersion: model.CurrentFormatVersion,
		ExportedAt:    model.NewTimestamp(now),
		Tasks:         []model.Task{},
		Boards:        []model.Board{},
	}

	if categories.Has(CategoryTasks) {
		b.Tasks = model.CloneTasks(d.Tasks)
	}

	if categories.Has(CategoryBoards) {
		b.Boards = model.CloneBoards(d.Boards)
	}

	if categories.Has(CategorySettings) {
		b.Settings = d.Settings.Clone()
	}

	return b
}

// Filename derives the export file name from the included categories and
// the date, e.g. "taskbundle-export-tasks-boards-2024-03-01.json".
func Filename(categories Category, now time.Time, format codec.Format) string {
	var label string

	switch categories {
	case CategoryAll:
		label = "all"
	case CategoryNone:
		label = "empty"
	default:
		label = strings.Join(categories.Names(), "-")
	}

	return fmt.Sprintf("%s-%s-%s.%s", FilePrefix, label, now.Format(time.DateOnly), format.Extension())
}

// Encode builds the bundle for categories and serializes it.
func Encode(d model.Dataset, categories Category, now time.Time, format codec.Format) ([]byte, error) {
	data, err := codec.Marshal(Build(d, categories, now), format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s export: %w", categories, err)
	}

	return data, nil
}
