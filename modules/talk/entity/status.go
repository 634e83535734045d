package entity

// TalkStatus is the lifecycle state of a talk.
type TalkStatus string

const (
	StatusPending   TalkStatus = "pending"
	StatusAccepted  TalkStatus = "accepted"
	StatusRejected  TalkStatus = "rejected"
	StatusScheduled TalkStatus = "scheduled"
)

// allowedTransitions is the complete edge list of the talk lifecycle.
// accepted -> scheduled happens only through a booking commit, and
// scheduled -> accepted only through a booking cancellation; the schedule
// service owns those two writes. rejected is terminal.
var allowedTransitions = map[TalkStatus][]TalkStatus{
	StatusPending:   {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusScheduled},
	StatusScheduled: {StatusAccepted},
	StatusRejected:  {},
}

// CanTransition reports whether moving from one status to another is a legal
// lifecycle edge. Callers must never write a status change that fails this
// check.
func CanTransition(from, to TalkStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether the value is a known status.
func ValidStatus(s TalkStatus) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusScheduled:
		return true
	}
	return false
}

// AllStatuses lists every status, for reference-data endpoints.
func AllStatuses() []TalkStatus {
	return []TalkStatus{StatusPending, StatusAccepted, StatusRejected, StatusScheduled}
}

// AllLevels lists every level, for reference-data endpoints.
func AllLevels() []TalkLevel {
	return []TalkLevel{LevelBeginner, LevelIntermediate, LevelAdvanced}
}
