package model

import (
	"fmt"

	"taskbundle/internal/diagnostic"
	"taskbundle/internal/schema"
)

// Decode converts an untyped parsed document into a Bundle.
// Shape problems are reported as error diagnostics; the returned bundle holds
// every value that could be decoded, so callers can show partial results.
// The input tree is only read.
func Decode(raw any) (*Bundle, *diagnostic.Diagnostics) {
	d := &decoder{}
	bundle := &Bundle{Tasks: []Task{}, Boards: []Board{}}

	root, ok := d.object(raw, diagnostic.Root)
	if !ok {
		return bundle, &d.diags
	}

	bundle.FormatVersion = d.str(root, "version", diagnostic.Root, true)
	bundle.ExportedAt, _ = d.timestamp(root, "exportedAt", diagnostic.Root, true)

	tasksPath := diagnostic.Root.Field("tasks")
	for i, item := range d.array(root, "tasks", diagnostic.Root, true) {
		bundle.Tasks = append(bundle.Tasks, d.task(item, tasksPath.Index(i)))
	}

	boardsPath := diagnostic.Root.Field("boards")
	for i, item := range d.array(root, "boards", diagnostic.Root, true) {
		bundle.Boards = append(bundle.Boards, d.board(item, boardsPath.Index(i)))
	}

	if v, present := d.field(root, "settings", diagnostic.Root, false); present {
		bundle.Settings = d.settings(v, diagnostic.Root.Field("settings"))
	}

	return bundle, &d.diags
}

type decoder struct {
	diags diagnostic.Diagnostics
}

func (d *decoder) task(v any, path diagnostic.Path) Task {
	obj, ok := d.object(v, path)
	if !ok {
		return Task{Tags: []string{}}
	}

	t := Task{
		ID:          d.str(obj, "id", path, true),
		Title:       d.str(obj, "title", path, true),
		Description: d.str(obj, "description", path, false),
		Status:      Status(d.str(obj, "status", path, true)),
		BoardID:     d.str(obj, "boardId", path, true),
		Priority:    Priority(d.str(obj, "priority", path, true)),
		Tags:        d.strings(obj, "tags", path, true),
	}

	t.CreatedAt, _ = d.timestamp(obj, "createdAt", path, true)
	t.UpdatedAt, _ = d.timestamp(obj, "updatedAt", path, true)

	if ts, ok := d.timestamp(obj, "completedAt", path, false); ok {
		t.CompletedAt = &ts
	}

	if ts, ok := d.timestamp(obj, "archivedAt", path, false); ok {
		t.ArchivedAt = &ts
	}

	if n, ok := d.number(obj, "progress", path, false); ok {
		t.Progress = &n
	}

	if t.Status != "" && !t.Status.IsValid() {
		d.diags.AddError("invalid_enum", fmt.Sprintf("Unknown status %q", t.Status), path.Field("status").String(), string(t.Status))
	}

	if t.Priority != "" && !t.Priority.IsValid() {
		d.diags.AddError("invalid_enum", fmt.Sprintf("Unknown priority %q", t.Priority), path.Field("priority").String(), string(t.Priority))
	}

	return t
}

func (d *decoder) board(v any, path diagnostic.Path) Board {
	obj, ok := d.object(v, path)
	if !ok {
		return Board{}
	}

	b := Board{
		ID:          d.str(obj, "id", path, true),
		Name:        d.str(obj, "name", path, true),
		Description: d.str(obj, "description", path, false),
		Color:       d.str(obj, "color", path, true),
		IsDefault:   d.boolean(obj, "isDefault", path, true),
	}

	b.Order, _ = d.number(obj, "order", path, true)
	b.CreatedAt, _ = d.timestamp(obj, "createdAt", path, true)
	b.UpdatedAt, _ = d.timestamp(obj, "updatedAt", path, true)

	if ts, ok := d.timestamp(obj, "archivedAt", path, false); ok {
		b.ArchivedAt = &ts
	}

	return b
}

func (d *decoder) settings(v any, path diagnostic.Path) *Settings {
	obj, ok := d.object(v, path)
	if !ok {
		return nil
	}

	s := &Settings{
		Theme:               Theme(d.str(obj, "theme", path, true)),
		EnableNotifications: d.boolean(obj, "enableNotifications", path, true),
		ReducedMotion:       d.boolean(obj, "reducedMotion", path, true),
		HighContrast:        d.boolean(obj, "highContrast", path, true),
		SearchScope:         SearchScope(d.str(obj, "searchScope", path, true)),
	}

	s.AutoArchiveDays, _ = d.number(obj, "autoArchiveDays", path, true)

	if ts, ok := d.timestamp(obj, "updatedAt", path, false); ok {
		s.UpdatedAt = &ts
	}

	return s
}

func (d *decoder) typeError(path diagnostic.Path, want string, v any) {
	d.diags.AddError("invalid_type", fmt.Sprintf("Expected %s, got %s", want, schema.TypeOf(v)), path.String(), v)
}

func (d *decoder) object(v any, path diagnostic.Path) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		d.typeError(path, "object", v)
	}

	return obj, ok
}

// field looks up key; absent and null are the same thing.
func (d *decoder) field(obj map[string]any, key string, path diagnostic.Path, required bool) (any, bool) {
	v, ok := obj[key]
	if !ok || v == nil {
		if required {
			d.diags.AddError("missing_required", "Missing required field: "+key, path.Field(key).String(), nil)
		}

		return nil, false
	}

	return v, true
}

func (d *decoder) str(obj map[string]any, key string, path diagnostic.Path, required bool) string {
	v, ok := d.field(obj, key, path, required)
	if !ok {
		return ""
	}

	s, ok := v.(string)
	if !ok {
		d.typeError(path.Field(key), "string", v)
	}

	return s
}

func (d *decoder) number(obj map[string]any, key string, path diagnostic.Path, required bool) (float64, bool) {
	v, ok := d.field(obj, key, path, required)
	if !ok {
		return 0, false
	}

	n, ok := v.(float64)
	if !ok {
		d.typeError(path.Field(key), "number", v)
	}

	return n, ok
}

func (d *decoder) boolean(obj map[string]any, key string, path diagnostic.Path, required bool) bool {
	v, ok := d.field(obj, key, path, required)
	if !ok {
		return false
	}

	b, ok := v.(bool)
	if !ok {
		d.typeError(path.Field(key), "boolean", v)
	}

	return b
}

func (d *decoder) timestamp(obj map[string]any, key string, path diagnostic.Path, required bool) (Timestamp, bool) {
	v, ok := d.field(obj, key, path, required)
	if !ok {
		return Timestamp{}, false
	}

	s, ok := v.(string)
	if !ok {
		d.typeError(path.Field(key), "date-time string", v)
		return Timestamp{}, false
	}

	ts, err := ParseTimestamp(s)
	if err != nil {
		d.diags.AddError("invalid_format", "Invalid date-time: "+s, path.Field(key).String(), s)
		return Timestamp{}, false
	}

	return ts, true
}

func (d *decoder) array(obj map[string]any, key string, path diagnostic.Path, required bool) []any {
	v, ok := d.field(obj, key, path, required)
	if !ok {
		return nil
	}

	arr, ok := v.([]any)
	if !ok {
		d.typeError(path.Field(key), "array", v)
	}

	return arr
}

func (d *decoder) strings(obj map[string]any, key string, path diagnostic.Path, required bool) []string {
	items := d.array(obj, key, path, required)
	out := make([]string, 0, len(items))

	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			d.typeError(path.Field(key).Index(i), "string", item)
			continue
		}

		out = append(out, s)
	}

	return out
}
