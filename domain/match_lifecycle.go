package domain

import "github.com/galera-volei/galera-system/models"

// matchTransitions is the strict forward state machine. Confirmation is
// optional (scheduled may start directly), cancellation is reachable from
// any non-finished state, and inactive is a withdrawal before play starts.
// Unknown statuses have no entry, so nothing transitions out of them.
var matchTransitions = map[models.MatchStatus][]models.MatchStatus{
	models.MatchStatusScheduled: {
		models.MatchStatusConfirmed,
		models.MatchStatusInProgress,
		models.MatchStatusCancelled,
		models.MatchStatusInactive,
	},
	models.MatchStatusConfirmed: {
		models.MatchStatusInProgress,
		models.MatchStatusCancelled,
		models.MatchStatusInactive,
	},
	models.MatchStatusInProgress: {
		models.MatchStatusFinished,
		models.MatchStatusCancelled,
	},
	models.MatchStatusFinished:  {},
	models.MatchStatusCancelled: {},
	models.MatchStatusInactive:  {},
}

// CanTransitionMatch reports whether a match may move from one status to
// another. Terminal and unknown statuses admit no transitions.
func CanTransitionMatch(from, to models.MatchStatus) bool {
	for _, next := range matchTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// MatchTerminal reports whether no further lifecycle transitions are
// possible. Unrecognized statuses behave as terminal: read-only, no
// actions offered.
func MatchTerminal(status models.MatchStatus) bool {
	next, known := matchTransitions[status]
	return !known || len(next) == 0
}

// CanModifyParticipants reports whether join and leave are open in the
// given status. They close the moment play starts.
func CanModifyParticipants(status models.MatchStatus) bool {
	switch status {
	case models.MatchStatusScheduled, models.MatchStatusConfirmed:
		return true
	}
	return false
}

// ScoresMeaningful reports whether the score fields carry information yet.
func ScoresMeaningful(status models.MatchStatus) bool {
	switch status {
	case models.MatchStatusInProgress, models.MatchStatusFinished:
		return true
	}
	return false
}
