package domain

type Owner string

const (
	OwnerEngineer Owner = "engineer"
	OwnerDesigner Owner = "designer"
	OwnerShared   Owner = "shared"
)

// Owners lists owners in display order.
var Owners = []Owner{OwnerEngineer, OwnerDesigner, OwnerShared}

func (o Owner) Valid() bool {
	switch o {
	case OwnerEngineer, OwnerDesigner, OwnerShared:
		return true
	}
	return false
}

func (o Owner) Label() string {
	switch o {
	case OwnerEngineer:
		return "Engineer"
	case OwnerDesigner:
		return "Designer"
	case OwnerShared:
		return "Shared"
	}
	return string(o)
}

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusOnHold     Status = "on_hold"
)

// Statuses lists statuses in display order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusDone, StatusOnHold}

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone, StatusOnHold:
		return true
	}
	return false
}

func (s Status) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not started"
	case StatusInProgress:
		return "In progress"
	case StatusDone:
		return "Done"
	case StatusOnHold:
		return "On hold"
	}
	return string(s)
}

// Next cycles through Statuses.
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusNotStarted
}

type Priority string

const (
	PriorityRequired    Priority = "required"
	PriorityRecommended Priority = "recommended"
	PriorityOptional    Priority = "optional"
)

// Priorities lists priorities in display order.
var Priorities = []Priority{PriorityRequired, PriorityRecommended, PriorityOptional}

func (p Priority) Valid() bool {
	switch p {
	case PriorityRequired, PriorityRecommended, PriorityOptional:
		return true
	}
	return false
}

func (p Priority) Label() string {
	switch p {
	case PriorityRequired:
		return "Required"
	case PriorityRecommended:
		return "Recommended"
	case PriorityOptional:
		return "Optional"
	}
	return string(p)
}

// MaxIndent is the deepest allowed outline level.
const MaxIndent = 3

// DefaultPhaseNames is used for grouping when no phase rows exist.
var DefaultPhaseNames = []string{"Phase 1", "Phase 1.5", "Phase 2"}
