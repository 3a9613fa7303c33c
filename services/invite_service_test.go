package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galera-volei/galera-system/domain"
	"github.com/galera-volei/galera-system/models"
)

type inviteFixture struct {
	users   *fakeUserRepo
	matches *fakeMatchRepo
	invites *fakeInviteRepo
	matchUC MatchService
	svc     *inviteService
	now     time.Time
}

func newInviteFixture() *inviteFixture {
	users := newFakeUserRepo()
	matches := newFakeMatchRepo(users)
	invites := newFakeInviteRepo(matches)

	f := &inviteFixture{
		users:   users,
		matches: matches,
		invites: invites,
		matchUC: NewMatchService(matches, users, nil),
		now:     time.Date(2026, time.September, 2, 19, 0, 0, 0, time.UTC),
	}
	f.svc = NewInviteService(invites, matches, users).(*inviteService)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *inviteFixture) seedUser(level models.Level) *models.User {
	return f.users.add(models.User{Name: "player", Level: level, Active: true})
}

func (f *inviteFixture) seedMatch(t *testing.T, organizerID, capacity int, category string) *models.Match {
	t.Helper()
	match, err := f.matchUC.Create(context.Background(), organizerID, CreateMatchInput{
		Title:           "treino de quarta",
		Category:        category,
		StartsAt:        f.now.Add(72 * time.Hour),
		MaxParticipants: capacity,
	})
	require.NoError(t, err)
	return match
}

func (f *inviteFixture) seedInvite(t *testing.T, senderID, recipientID, matchID int) *models.Invite {
	t.Helper()
	invite, err := f.svc.Create(context.Background(), senderID, CreateInviteInput{
		RecipientID: recipientID,
		MatchID:     matchID,
	})
	require.NoError(t, err)
	return invite
}

func TestCreateInvite(t *testing.T) {
	f := newInviteFixture()
	organizer := f.seedUser(models.LevelAmador)
	recipient := f.seedUser(models.LevelNoob)
	match := f.seedMatch(t, organizer.ID, 8, models.CategoryLivre)

	invite := f.seedInvite(t, organizer.ID, recipient.ID, match.ID)

	assert.Equal(t, models.InviteStatusPending, invite.Status)
	require.NotNil(t, invite.ExpiresAt)
	assert.Equal(t, f.now.Add(defaultInviteTTL), *invite.ExpiresAt)
}

func TestCreateInviteRejections(t *testing.T) {
	f := newInviteFixture()
	organizer := f.seedUser(models.LevelAmador)
	recipient := f.seedUser(models.LevelNoob)
	participant := f.seedUser(models.LevelNoob)
	match := f.seedMatch(t, organizer.ID, 8, models.CategoryLivre)

	_, err := f.matchUC.Join(context.Background(), match.ID, participant.ID)
	require.NoError(t, err)

	t.Run("sender is not the organizer", func(t *testing.T) {
		_, err := f.svc.Create(context.Background(), recipient.ID, CreateInviteInput{RecipientID: participant.ID, MatchID: match.ID})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
	t.Run("self invite", func(t *testing.T) {
		_, err := f.svc.Create(context.Background(), organizer.ID, CreateInviteInput{RecipientID: organizer.ID, MatchID: match.ID})
		assert.ErrorIs(t, err, ErrInviteSelf)
	})
	t.Run("recipient already in the match", func(t *testing.T) {
		_, err := f.svc.Create(context.Background(), organizer.ID, CreateInviteInput{RecipientID: participant.ID, MatchID: match.ID})
		assert.ErrorIs(t, err, ErrRecipientIneligible)
	})
	t.Run("unknown recipient", func(t *testing.T) {
		_, err := f.svc.Create(context.Background(), organizer.ID, CreateInviteInput{RecipientID: 999, MatchID: match.ID})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("duplicate pending invite", func(t *testing.T) {
		f.seedInvite(t, organizer.ID, recipient.ID, match.ID)
		_, err := f.svc.Create(context.Background(), organizer.ID, CreateInviteInput{RecipientID: recipient.ID, MatchID: match.ID})
		assert.ErrorIs(t, err, ErrInvitePending)
	})
}

func TestCreateInviteRejectedOnceMatchStarts(t *testing.T) {
	f := newInviteFixture()
	organizer := f.seedUser(models.LevelAmador)
	recipient := f.seedUser(models.LevelNoob)
	match := f.seedMatch(t, organizer.ID, 8, models.CategoryLivre)

	_, err := f.matchUC.Transition(context.Background(), match.ID, organizer.ID, TransitionInput{Status: models.MatchStatusInProgress})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), organizer.ID, CreateInviteInput{RecipientID: recipient.ID, MatchID: match.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestAcceptInviteSeatsRecipient(t *testing.T) {
	f := newInviteFixture()
	organizer := f.seedUser(models.LevelAmador)
	recipient := f.seedUser(models.LevelNoob)
	match := f.seedMatch(t, organizer.ID, 8, models.CategoryLivre)
	invite := f.seedInvite(t, organizer.ID, recipient.ID, match.ID)

	accepted, err := f.svc.Accept(context.Background(), invite.ID, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusAccepted, accepted.Status)

	updated, err := f.matchUC.Get(context.Background(), match.ID)
	require.NoError(t, err)
	assert.True(t, domain.IsParticipant(recipient.ID, updated))
}

func TestAcceptInviteOnlyByRecipient(t *testing.T) {
	f := newInviteFixture()
	organizer := f.seedUser(models.LevelAmador)
	recipient := f.seedUser(models.LevelNoob)
	intruder := f.seedUser(models.LevelNoob)
	match := f.seedMatch(t, organizer.ID, 8, models.CategoryLivre)
	invite := f.seedInvite(t, organizer.ID, recipient.ID, match.ID)

	_, err := f.svc.Accept(context.Background(), invite.ID, intruder.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAcceptInviteTwiceIsStateError(t *testing.T) {
	f := newInviteFixture()
	organizer := f.seedUser(models.LevelAmador)
	recipient := f.seedUser(models.LevelNoob)
	match := f.seedMatch(t, organizer.ID, 8, models.CategoryLivre)
	invite := f.seedInvite(t, organizer.ID, recipient.ID, match.ID)

	_, err := f.svc.Accept(context.Background(), invite.ID, recipient.ID)
	require.NoError(t, err)

	// The second accept fails on the invite's state, not on membership.
	_, err = f.svc.Accept(context.Background(), invite.ID, recipient.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	updated, err := f.matchUC.Get(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, domain.Occupancy(updated))
}

func TestAcceptInviteDeniedWhenMatchFills(t *testing.T) {
	f := newInviteFixture()
	organizer := f.seedUser(models.LevelAmador)
	recipient := f.seedUser(models.LevelNoob)
	walkIn := f.seedUser(models.LevelNoob)
	match := f.seedMatch(t, organizer.ID, 2, models.CategoryLivre)
	invite := f.seedInvite(t, organizer.ID, recipient.ID, match.ID)

	// The last spot goes to a walk-in before the invite is answered.
	_, err := f.matchUC.Join(context.Background(), match.ID, walkIn.ID)
	require.NoError(t, err)

	_, err = f.svc.Accept(context.Background(), invite.ID, recipient.ID)
	assert.ErrorIs(t, err, domain.ErrMatchFull)

	// The invite survives as pending; it was not consumed by the failure.
	stored, err := f.invites.GetByID(context.Background(), invite.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusPending, stored.Status)
}

func TestAcceptExpiredInvite(t *testing.T) {
	f := newInviteFixture()
	organizer := f.seedUser(models.LevelAmador)
	recipient := f.seedUser(models.LevelNoob)
	match := f.seedMatch(t, organizer.ID, 8, models.CategoryLivre)
	invite := f.seedInvite(t, organizer.ID, recipient.ID, match.ID)

	f.now = f.now.Add(defaultInviteTTL + time.Hour)

	_, err := f.svc.Accept(context.Background(), invite.ID, recipient.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestAcceptInviteAfterMatchCancelled(t *testing.T) {
	f := newInviteFixture()
	organizer := f.seedUser(models.LevelAmador)
	recipient := f.seedUser(models.LevelNoob)
	match := f.seedMatch(t, organizer.ID, 8, models.CategoryLivre)
	invite := f.seedInvite(t, organizer.ID, recipient.ID, match.ID)

	_, err := f.matchUC.Transition(context.Background(), match.ID, organizer.ID, TransitionInput{Status: models.MatchStatusCancelled})
	require.NoError(t, err)

	_, err = f.svc.Accept(context.Background(), invite.ID, recipient.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDeclineInvite(t *testing.T) {
	f := newInviteFixture()
	organizer := f.seedUser(models.LevelAmador)
	recipient := f.seedUser(models.LevelNoob)
	match := f.seedMatch(t, organizer.ID, 8, models.CategoryLivre)
	invite := f.seedInvite(t, organizer.ID, recipient.ID, match.ID)

	declined, err := f.svc.Decline(context.Background(), invite.ID, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusDeclined, declined.Status)

	// Declining never seats anyone.
	updated, err := f.matchUC.Get(context.Background(), match.ID)
	require.NoError(t, err)
	assert.False(t, domain.IsParticipant(recipient.ID, updated))

	// And a declined invite cannot come back.
	_, err = f.svc.Accept(context.Background(), invite.ID, recipient.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCandidatesOrganizerOnly(t *testing.T) {
	f := newInviteFixture()
	organizer := f.seedUser(models.LevelAmador)
	other := f.seedUser(models.LevelNoob)
	match := f.seedMatch(t, organizer.ID, 8, models.CategoryLivre)

	_, err := f.svc.Candidates(context.Background(), match.ID, other.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	users, err := f.svc.Candidates(context.Background(), match.ID, organizer.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, users)
}

func TestExpireOverdueSweep(t *testing.T) {
	f := newInviteFixture()
	organizer := f.seedUser(models.LevelAmador)
	recipient := f.seedUser(models.LevelNoob)
	match := f.seedMatch(t, organizer.ID, 8, models.CategoryLivre)
	invite := f.seedInvite(t, organizer.ID, recipient.ID, match.ID)

	f.now = f.now.Add(defaultInviteTTL + time.Hour)

	expired, err := f.svc.ExpireOverdue(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)

	stored, err := f.invites.GetByID(context.Background(), invite.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusExpired, stored.Status)
}
