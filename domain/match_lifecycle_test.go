package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/galera-volei/galera-system/models"
)

func TestCanTransitionMatch_ForwardOnly(t *testing.T) {
	tests := []struct {
		from, to models.MatchStatus
		want     bool
	}{
		{models.MatchStatusScheduled, models.MatchStatusConfirmed, true},
		{models.MatchStatusScheduled, models.MatchStatusInProgress, true}, // confirmation is optional
		{models.MatchStatusConfirmed, models.MatchStatusInProgress, true},
		{models.MatchStatusInProgress, models.MatchStatusFinished, true},
		{models.MatchStatusConfirmed, models.MatchStatusScheduled, false},
		{models.MatchStatusInProgress, models.MatchStatusConfirmed, false},
		{models.MatchStatusFinished, models.MatchStatusInProgress, false},
		{models.MatchStatusFinished, models.MatchStatusCancelled, false},
		{models.MatchStatusCancelled, models.MatchStatusScheduled, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransitionMatch(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestCanTransitionMatch_CancelFromNonFinished(t *testing.T) {
	for _, from := range []models.MatchStatus{
		models.MatchStatusScheduled,
		models.MatchStatusConfirmed,
		models.MatchStatusInProgress,
	} {
		assert.True(t, CanTransitionMatch(from, models.MatchStatusCancelled), "cancel from %s", from)
	}
}

func TestCanTransitionMatch_UnknownStatusFrozen(t *testing.T) {
	odd := models.MatchStatus("paused")
	for _, to := range []models.MatchStatus{
		models.MatchStatusScheduled,
		models.MatchStatusCancelled,
		models.MatchStatusFinished,
	} {
		assert.False(t, CanTransitionMatch(odd, to))
	}
	assert.True(t, MatchTerminal(odd), "unknown status is lowest-privilege")
}

func TestMatchTerminal(t *testing.T) {
	assert.True(t, MatchTerminal(models.MatchStatusFinished))
	assert.True(t, MatchTerminal(models.MatchStatusCancelled))
	assert.True(t, MatchTerminal(models.MatchStatusInactive))
	assert.False(t, MatchTerminal(models.MatchStatusScheduled))
	assert.False(t, MatchTerminal(models.MatchStatusInProgress))
}

func TestCanModifyParticipants(t *testing.T) {
	assert.True(t, CanModifyParticipants(models.MatchStatusScheduled))
	assert.True(t, CanModifyParticipants(models.MatchStatusConfirmed))
	assert.False(t, CanModifyParticipants(models.MatchStatusInProgress))
	assert.False(t, CanModifyParticipants(models.MatchStatusFinished))
	assert.False(t, CanModifyParticipants(models.MatchStatusCancelled))
	assert.False(t, CanModifyParticipants(models.MatchStatus("unknown")))
}

func TestScoresMeaningful(t *testing.T) {
	assert.False(t, ScoresMeaningful(models.MatchStatusScheduled))
	assert.False(t, ScoresMeaningful(models.MatchStatusConfirmed))
	assert.True(t, ScoresMeaningful(models.MatchStatusInProgress))
	assert.True(t, ScoresMeaningful(models.MatchStatusFinished))
}
