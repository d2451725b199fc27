package relation

import (
	"taskbundle/internal/diagnostic"
	"taskbundle/internal/model"
)

const completeProgress = 100.0

// NormalizeProgress returns a copy of b in which done tasks report full
// progress and todo tasks carry no progress, together with the list of
// tasks it changed. It fixes exactly what checkProgress warns about.
func NormalizeProgress(b *model.Bundle) (*model.Bundle, []diagnostic.Change) {
	out := b.Clone()

	var changes []diagnostic.Change

	for i := range out.Tasks {
		task := &out.Tasks[i]
		if task.Progress == nil {
			continue
		}

		path := tasksPath.Index(i).Field("progress").String()

		switch {
		case task.Status == model.StatusDone && *task.Progress != completeProgress:
			*task.Progress = completeProgress
			changes = append(changes, diagnostic.Change{Path: path, Message: "Set progress to 100 for done task"})
		case task.Status == model.StatusTodo && *task.Progress > 0:
			task.Progress = nil
			changes = append(changes, diagnostic.Change{Path: path, Message: "Removed progress from todo task"})
		}
	}

	return out, changes
}
