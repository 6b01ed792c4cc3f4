package hierarchy

import "github.com/alexanderramin/wbs/internal/domain"

// BoundaryGap stands in for the missing neighbour when a task is dropped at
// either end of its bucket.
const BoundaryGap = 1000.0

// DropPosition says which side of the target row a task was dropped on.
type DropPosition int

const (
	DropBefore DropPosition = iota
	DropAfter
)

// Between returns the midpoint key for a slot between prev and next.
//
// Keys are never renumbered. Each insertion into the same gap halves it, so
// after roughly 50 consecutive insertions between the same two neighbours the
// float64 mantissa is exhausted and the new key equals one of its neighbours.
func Between(prev, next float64) float64 {
	return (prev + next) / 2
}

// SortKeyForDrop computes the new sort key for draggedID dropped on the given
// side of target. The sibling list is target's bucket without the dragged task.
func SortKeyForDrop(tasks []domain.Task, draggedID int64, target domain.Task, pos DropPosition) float64 {
	var siblings []domain.Task
	for _, t := range tasks {
		if t.Bucket() == target.Bucket() && t.ID != draggedID {
			siblings = append(siblings, t)
		}
	}
	SortBucket(siblings)
	i := indexOf(siblings, target.ID)

	if pos == DropBefore {
		prev := target.SortOrder - BoundaryGap
		if i > 0 {
			prev = siblings[i-1].SortOrder
		}
		return Between(prev, target.SortOrder)
	}
	next := target.SortOrder + BoundaryGap
	if i >= 0 && i < len(siblings)-1 {
		next = siblings[i+1].SortOrder
	}
	return Between(target.SortOrder, next)
}

// PlanDrop builds the update that moves draggedID next to target, adopting
// target's bucket. ok is false when the task is dropped onto itself.
func PlanDrop(tasks []domain.Task, draggedID int64, target domain.Task, pos DropPosition) (patch domain.TaskPatch, ok bool) {
	if draggedID == target.ID {
		return domain.TaskPatch{}, false
	}
	key := SortKeyForDrop(tasks, draggedID, target, pos)
	phase, category, categoryID := target.Phase, target.Category, target.CategoryID
	return domain.TaskPatch{
		Phase:      &phase,
		Category:   &category,
		CategoryID: &categoryID,
		SortOrder:  &key,
	}, true
}

// PlanBucketDrop builds the update for a task dropped on a phase or category
// header: it becomes the first root row of that bucket. Use an empty
// category for a phase header.
func PlanBucketDrop(tasks []domain.Task, b domain.Bucket, categoryID int64) domain.TaskPatch {
	lowest := 0.0
	found := false
	for _, t := range tasks {
		if t.Bucket() != b {
			continue
		}
		if !found || t.SortOrder < lowest {
			lowest = t.SortOrder
			found = true
		}
	}
	key := lowest - 1
	indent := 0
	phase, category := b.Phase, b.Category
	return domain.TaskPatch{
		Phase:       &phase,
		Category:    &category,
		CategoryID:  &categoryID,
		IndentLevel: &indent,
		SortOrder:   &key,
	}
}

// NextSortOrder is the key for a task appended to bucket b.
func NextSortOrder(tasks []domain.Task, b domain.Bucket) float64 {
	highest := 0.0
	found := false
	for _, t := range tasks {
		if t.Bucket() != b {
			continue
		}
		if !found || t.SortOrder > highest {
			highest = t.SortOrder
			found = true
		}
	}
	return highest + 1
}

// PlanShift moves id past delta siblings within its bucket (negative is up).
// Only the moved row changes. ok is false when id is unknown or the shift
// would leave the bucket.
func PlanShift(tasks []domain.Task, id int64, delta int) (patch domain.TaskPatch, ok bool) {
	if delta == 0 {
		return domain.TaskPatch{}, false
	}
	var moved *domain.Task
	for i := range tasks {
		if tasks[i].ID == id {
			moved = &tasks[i]
			break
		}
	}
	if moved == nil {
		return domain.TaskPatch{}, false
	}
	bucket := BucketOf(tasks, moved.Bucket())
	i := indexOf(bucket, id)
	j := i + delta
	if j < 0 || j >= len(bucket) {
		return domain.TaskPatch{}, false
	}
	pos := DropAfter
	if delta < 0 {
		pos = DropBefore
	}
	key := SortKeyForDrop(tasks, id, bucket[j], pos)
	return domain.TaskPatch{SortOrder: &key}, true
}
