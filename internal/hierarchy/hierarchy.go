// Package hierarchy derives the outline structure of a task list: which rows
// are visible under collapsed parents, how indentation changes, and where a
// dropped task lands in its bucket's fractional ordering.
//
// Parenthood is positional. A task with indent > 0 belongs to the nearest
// preceding task in the same bucket whose indent is strictly lower. Nothing
// is cached; every query recomputes from the ordered bucket.
package hierarchy

import (
	"sort"

	"github.com/alexanderramin/wbs/internal/domain"
)

// Collapsed is the set of task ids whose subtrees are hidden.
type Collapsed map[int64]bool

// Toggle flips the collapse state of id.
func (c Collapsed) Toggle(id int64) {
	if c[id] {
		delete(c, id)
		return
	}
	c[id] = true
}

// SortBucket orders tasks by sort key, then id for stability.
func SortBucket(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].SortOrder != tasks[j].SortOrder {
			return tasks[i].SortOrder < tasks[j].SortOrder
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// BucketOf returns the tasks sharing b, in sort order.
func BucketOf(tasks []domain.Task, b domain.Bucket) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.Bucket() == b {
			out = append(out, t)
		}
	}
	SortBucket(out)
	return out
}

func indexOf(bucket []domain.Task, id int64) int {
	for i, t := range bucket {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Parent returns the index of the task's positional parent, or -1.
func Parent(bucket []domain.Task, i int) int {
	if i <= 0 || i >= len(bucket) {
		return -1
	}
	level := bucket[i].IndentLevel
	for j := i - 1; j >= 0; j-- {
		if bucket[j].IndentLevel < level {
			return j
		}
	}
	return -1
}

// IsVisible reports whether no ancestor of task is collapsed. Root tasks are
// always visible.
func IsVisible(task domain.Task, bucket []domain.Task, collapsed Collapsed) bool {
	if task.IndentLevel <= 0 {
		return true
	}
	i := indexOf(bucket, task.ID)
	if i < 0 {
		return true
	}
	for p := Parent(bucket, i); p >= 0; p = Parent(bucket, p) {
		if collapsed[bucket[p].ID] {
			return false
		}
	}
	return true
}

// HasChildren reports whether the row after i is indented deeper.
func HasChildren(bucket []domain.Task, i int) bool {
	if i < 0 || i+1 >= len(bucket) {
		return false
	}
	return bucket[i+1].IndentLevel > bucket[i].IndentLevel
}

// VisibleTasks filters an ordered bucket down to the rows that render.
func VisibleTasks(bucket []domain.Task, collapsed Collapsed) []domain.Task {
	out := make([]domain.Task, 0, len(bucket))
	for _, t := range bucket {
		if IsVisible(t, bucket, collapsed) {
			out = append(out, t)
		}
	}
	return out
}

// ClampIndent pins level to [0, MaxIndent].
func ClampIndent(level int) int {
	if level < 0 {
		return 0
	}
	if level > domain.MaxIndent {
		return domain.MaxIndent
	}
	return level
}

// ChangeIndent applies delta and reports whether the clamped level differs
// from current. Callers persist only when changed is true.
func ChangeIndent(current, delta int) (next int, changed bool) {
	next = ClampIndent(current + delta)
	return next, next != current
}
