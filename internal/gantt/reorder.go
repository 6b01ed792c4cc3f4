package gantt

import (
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/hierarchy"
)

// DropTarget is where a reorder gesture would land if released now. A zero
// TaskID means the header of Bucket.
type DropTarget struct {
	TaskID     int64
	Position   hierarchy.DropPosition
	Bucket     domain.Bucket
	CategoryID int64
}

func (t DropTarget) header() bool { return t.TaskID == 0 }

// Reorder is the drag controller for moving rows in the task list.
type Reorder struct {
	dragging int64
	target   *DropTarget
}

// Begin picks up a task row.
func (r *Reorder) Begin(taskID int64) error {
	if r.dragging != 0 {
		return ErrBusy
	}
	r.dragging = taskID
	r.target = nil
	return nil
}

func (r *Reorder) Dragging() int64 { return r.dragging }

// Target returns the current drop target, if any.
func (r *Reorder) Target() (DropTarget, bool) {
	if r.target == nil {
		return DropTarget{}, false
	}
	return *r.target, true
}

// Over records the row the pointer is over. Hovering the dragged row itself
// clears the target.
func (r *Reorder) Over(target domain.Task, pos hierarchy.DropPosition) {
	if r.dragging == 0 {
		return
	}
	if target.ID == r.dragging {
		r.target = nil
		return
	}
	r.target = &DropTarget{TaskID: target.ID, Position: pos, Bucket: target.Bucket(), CategoryID: target.CategoryID}
}

// OverHeader records a phase header (empty category) or category header.
func (r *Reorder) OverHeader(b domain.Bucket, categoryID int64) {
	if r.dragging == 0 {
		return
	}
	r.target = &DropTarget{Position: hierarchy.DropAfter, Bucket: b, CategoryID: categoryID}
}

// Leave clears the target, e.g. when the pointer leaves the list.
func (r *Reorder) Leave() {
	r.target = nil
}

// Drop ends the gesture and returns the update for the dragged task. ok is
// false when there is nothing to persist: no target, or the target vanished.
func (r *Reorder) Drop(tasks []domain.Task) (id int64, patch domain.TaskPatch, ok bool) {
	id, target := r.dragging, r.target
	r.dragging, r.target = 0, nil
	if id == 0 || target == nil {
		return 0, domain.TaskPatch{}, false
	}
	if target.header() {
		return id, hierarchy.PlanBucketDrop(tasks, target.Bucket, target.CategoryID), true
	}
	for _, t := range tasks {
		if t.ID == target.TaskID {
			patch, ok = hierarchy.PlanDrop(tasks, id, t, target.Position)
			return id, patch, ok
		}
	}
	return 0, domain.TaskPatch{}, false
}

// Cancel abandons the gesture.
func (r *Reorder) Cancel() {
	r.dragging, r.target = 0, nil
}
