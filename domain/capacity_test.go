package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/galera-volei/galera-system/models"
)

func intPtr(n int) *int { return &n }

func TestOccupancy_PrefersParticipantList(t *testing.T) {
	m := &models.Match{
		MaxParticipants:  10,
		Participants:     []models.User{{ID: 1}, {ID: 2}},
		ParticipantCount: intPtr(7), // stale aggregate must lose to the list
	}
	assert.Equal(t, 2, Occupancy(m))
}

func TestOccupancy_FallsBackToCount(t *testing.T) {
	m := &models.Match{MaxParticipants: 10, ParticipantCount: intPtr(7)}
	assert.Equal(t, 7, Occupancy(m))
}

func TestOccupancy_NoSignal(t *testing.T) {
	assert.Equal(t, 0, Occupancy(&models.Match{MaxParticipants: 10}))
}

func TestIsFull(t *testing.T) {
	tests := []struct {
		name string
		m    *models.Match
		want bool
	}{
		{"below limit", &models.Match{MaxParticipants: 3, Participants: []models.User{{ID: 1}}}, false},
		{"at limit", &models.Match{MaxParticipants: 2, Participants: []models.User{{ID: 1}, {ID: 2}}}, true},
		{"over limit", &models.Match{MaxParticipants: 1, ParticipantCount: intPtr(3)}, true},
		{"zero limit is full", &models.Match{MaxParticipants: 0}, true},
		{"negative limit is full", &models.Match{MaxParticipants: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFull(tt.m))
		})
	}
}

func TestVacancies_NeverNegative(t *testing.T) {
	assert.Equal(t, 2, Vacancies(&models.Match{MaxParticipants: 4, ParticipantCount: intPtr(2)}))
	assert.Equal(t, 0, Vacancies(&models.Match{MaxParticipants: 2, ParticipantCount: intPtr(5)}))
	assert.Equal(t, 0, Vacancies(&models.Match{MaxParticipants: 0}))
	assert.Equal(t, 0, Vacancies(&models.Match{MaxParticipants: -3, ParticipantCount: intPtr(1)}))
}

// Occupancy stays consistent across a sequence of permitted joins: full
// flips exactly when occupancy reaches the limit and never beyond.
func TestCapacity_JoinSequence(t *testing.T) {
	m := &models.Match{MaxParticipants: 3}
	for i := 1; i <= 3; i++ {
		assert.False(t, IsFull(m), "match should admit participant %d", i)
		m.Participants = append(m.Participants, models.User{ID: i})
		assert.Equal(t, i, Occupancy(m))
	}
	assert.True(t, IsFull(m))
	assert.Equal(t, 0, Vacancies(m))
}
