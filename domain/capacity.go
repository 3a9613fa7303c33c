package domain

import "github.com/galera-volei/galera-system/models"

// Occupancy derives the current participant figure from whichever
// representation the payload carries: the full list when present, otherwise
// the aggregate count. The two sources are never combined.
func Occupancy(m *models.Match) int {
	if m.Participants != nil {
		return len(m.Participants)
	}
	if m.ParticipantCount != nil {
		return *m.ParticipantCount
	}
	return 0
}

// IsFull reports whether the match has reached its participant limit.
// A non-positive limit counts as full so a broken match never admits joins.
func IsFull(m *models.Match) bool {
	if m.MaxParticipants <= 0 {
		return true
	}
	return Occupancy(m) >= m.MaxParticipants
}

// Vacancies returns the number of open slots, never negative.
func Vacancies(m *models.Match) int {
	if m.MaxParticipants <= 0 {
		return 0
	}
	v := m.MaxParticipants - Occupancy(m)
	if v < 0 {
		return 0
	}
	return v
}
