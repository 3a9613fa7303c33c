package domain

import "github.com/galera-volei/galera-system/models"

// JoinDecision carries the two independent checks behind a join
// affordance. The UI tells the failures apart ("below required level" vs
// "match full"), so they are never collapsed into one boolean.
type JoinDecision struct {
	Eligible   bool
	HasVacancy bool
	StatusOpen bool
}

// Allowed reports whether the join may be offered at all.
func (d JoinDecision) Allowed() bool {
	return d.Eligible && d.HasVacancy && d.StatusOpen
}

// Reason returns the sentinel for the first failed check, nil when allowed.
func (d JoinDecision) Reason() error {
	switch {
	case !d.StatusOpen:
		return ErrInvalidState
	case !d.Eligible:
		return ErrNotEligible
	case !d.HasVacancy:
		return ErrMatchFull
	}
	return nil
}

// CanJoin decides whether a user may join a match. The decision is
// advisory: the server re-verifies all three checks on the mutation path,
// and a server rejection after a positive decision is an expected outcome
// (someone else took the last slot).
func CanJoin(user *models.User, m *models.Match) (JoinDecision, error) {
	if user == nil {
		return JoinDecision{}, ErrUnauthenticated
	}
	return JoinDecision{
		Eligible:   MeetsCategory(user.Level, m.Category),
		HasVacancy: !IsFull(m),
		StatusOpen: CanModifyParticipants(m.Status),
	}, nil
}

// IsParticipant reports whether the user is in the match. The organizer is
// implicitly a participant even when the list omits them.
func IsParticipant(userID int, m *models.Match) bool {
	if userID == m.OrganizerID {
		return true
	}
	for _, p := range m.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// CanLeave reports whether a leave action may be offered. Organizers never
// leave their own match; cancelling or withdrawing it is their exit path.
func CanLeave(user *models.User, m *models.Match) (bool, error) {
	if user == nil {
		return false, ErrUnauthenticated
	}
	if !CanModifyParticipants(m.Status) {
		return false, nil
	}
	if user.ID == m.OrganizerID {
		return false, nil
	}
	return IsParticipant(user.ID, m), nil
}
