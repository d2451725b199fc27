package model

import (
	"slices"
)

// CurrentFormatVersion is the bundle format version written by this module.
const CurrentFormatVersion = "1.0.0"

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// IsValid returns true if the status is a recognized value.
func (s Status) IsValid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// Priority is the importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid returns true if the priority is a recognized value.
func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Theme is the UI color scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// SearchScope selects which boards a search covers.
type SearchScope string

const (
	SearchCurrentBoard SearchScope = "current-board"
	SearchAllBoards    SearchScope = "all-boards"
)

// Task is a unit of work placed on a board.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status     `json:"status" yaml:"status"`
	BoardID     string     `json:"boardId" yaml:"boardId"`
	CreatedAt   Timestamp  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   Timestamp  `json:"updatedAt" yaml:"updatedAt"`
	CompletedAt *Timestamp `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	ArchivedAt  *Timestamp `json:"archivedAt,omitempty" yaml:"archivedAt,omitempty"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Tags        []string   `json:"tags" yaml:"tags"`
	Progress    *float64   `json:"progress,omitempty" yaml:"progress,omitempty"`
}

// Clone returns a copy of t that shares no memory with it.
func (t Task) Clone() Task {
	c := t
	c.Tags = slices.Clone(t.Tags)

	if c.Tags == nil {
		c.Tags = []string{}
	}

	if t.CompletedAt != nil {
		v := *t.CompletedAt
		c.CompletedAt = &v
	}

	if t.ArchivedAt != nil {
		v := *t.ArchivedAt
		c.ArchivedAt = &v
	}

	if t.Progress != nil {
		v := *t.Progress
		c.Progress = &v
	}

	return c
}

// Board groups tasks. At most one board of a dataset is the default.
type Board struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string     `json:"color" yaml:"color"`
	IsDefault   bool       `json:"isDefault" yaml:"isDefault"`
	Order       float64    `json:"order" yaml:"order"`
	CreatedAt   Timestamp  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   Timestamp  `json:"updatedAt" yaml:"updatedAt"`
	ArchivedAt  *Timestamp `json:"archivedAt,omitempty" yaml:"archivedAt,omitempty"`
}

// Clone returns a copy of b that shares no memory with it.
func (b Board) Clone() Board {
	c := b
	if b.ArchivedAt != nil {
		v := *b.ArchivedAt
		c.ArchivedAt = &v
	}

	return c
}

// Settings holds the single per-dataset preferences record.
type Settings struct {
	Theme               Theme       `json:"theme" yaml:"theme"`
	AutoArchiveDays     float64     `json:"autoArchiveDays" yaml:"autoArchiveDays"`
	EnableNotifications bool        `json:"enableNotifications" yaml:"enableNotifications"`
	ReducedMotion       bool        `json:"reducedMotion" yaml:"reducedMotion"`
	HighContrast        bool        `json:"highContrast" yaml:"highContrast"`
	SearchScope         SearchScope `json:"searchScope" yaml:"searchScope"`
	UpdatedAt           *Timestamp  `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Clone returns a copy of s, or nil when s is nil.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}

	c := *s
	if s.UpdatedAt != nil {
		v := *s.UpdatedAt
		c.UpdatedAt = &v
	}

	return &c
}

// Bundle is the versioned transfer unit of tasks, boards and settings.
type Bundle struct {
	FormatVersion string    `json:"version" yaml:"version"`
	ExportedAt    Timestamp `json:"exportedAt" yaml:"exportedAt"`
	Tasks         []Task    `json:"tasks" yaml:"tasks"`
	Boards        []Board   `json:"boards" yaml:"boards"`
	Settings      *Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// Clone returns a deep copy of b.
func (b *Bundle) Clone() *Bundle {
	if b == nil {
		return nil
	}

	c := &Bundle{
		FormatVersion: b.FormatVersion,
		ExportedAt:    b.ExportedAt,
		Tasks:         CloneTasks(b.Tasks),
		Boards:        CloneBoards(b.Boards),
		Settings:      b.Settings.Clone(),
	}

	return c
}

// Dataset is the existing local snapshot supplied by the persistence layer.
type Dataset struct {
	Tasks    []Task
	Boards   []Board
	Settings *Settings
}

// CloneTasks deep-copies a task slice. The result is never nil.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}

	return out
}

// CloneBoards deep-copies a board slice. The result is never nil.
func CloneBoards(boards []Board) []Board {
	out := make([]Board, len(boards))
	for i := range boards {
		out[i] = boards[i].Clone()
	}

	return out
}
