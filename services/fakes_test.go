package services

import (
	"context"
	"time"

	"github.com/galera-volei/galera-system/models"
	"github.com/galera-volei/galera-system/repositories"
)

// In-memory repositories mirroring the postgres contracts: the same
// sentinel errors, CAS status updates, and the capacity-guarded seat
// insert.

type fakeUserRepo struct {
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) add(user models.User) *models.User {
	if user.ID == 0 {
		user.ID = r.nextID
	}
	if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	stored := user
	r.users[stored.ID] = &stored
	return &stored
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ListInvitable(_ context.Context, _ int) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		copied.PasswordHash = ""
		out = append(out, copied)
	}
	return out, nil
}

type fakeMatchRepo struct {
	users   *fakeUserRepo
	nextID  int
	matches map[int]*models.Match
	seated  map[int][]int

	// Forces AddParticipant to fail, for lost-race scenarios.
	addParticipantErr error
}

func newFakeMatchRepo(users *fakeUserRepo) *fakeMatchRepo {
	return &fakeMatchRepo{
		users:   users,
		nextID:  1,
		matches: make(map[int]*models.Match),
		seated:  make(map[int][]int),
	}
}

func (r *fakeMatchRepo) Create(_ context.Context, match *models.Match) error {
	if _, ok := r.users.users[match.OrganizerID]; !ok {
		return repositories.ErrMatchOrganizerInvalid
	}
	match.ID = r.nextID
	r.nextID++
	match.CreatedAt = time.Now()
	stored := *match
	r.matches[match.ID] = &stored
	r.seated[match.ID] = []int{match.OrganizerID}
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	copied.Participants = make([]models.User, 0, len(r.seated[id]))
	for _, userID := range r.seated[id] {
		if u, ok := r.users.users[userID]; ok {
			participant := *u
			participant.PasswordHash = ""
			copied.Participants = append(copied.Participants, participant)
		}
	}
	if organizer, ok := r.users.users[match.OrganizerID]; ok {
		org := *organizer
		org.PasswordHash = ""
		copied.Organizer = &org
	}
	return &copied, nil
}

func (r *fakeMatchRepo) List(_ context.Context, filter repositories.MatchFilter) ([]models.Match, error) {
	out := make([]models.Match, 0, len(r.matches))
	for id, match := range r.matches {
		if filter.Category != "" && match.Category != filter.Category {
			continue
		}
		copied := *match
		count := len(r.seated[id])
		copied.ParticipantCount = &count
		out = append(out, copied)
	}
	return out, nil
}

// AddParticipant enforces the same guard as the conditional insert: an
// open status and a free slot, checked atomically.
func (r *fakeMatchRepo) AddParticipant(_ context.Context, matchID, userID int) error {
	if r.addParticipantErr != nil {
		return r.addParticipantErr
	}
	match, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	for _, id := range r.seated[matchID] {
		if id == userID {
			return repositories.ErrParticipantConflict
		}
	}
	open := match.Status == models.MatchStatusScheduled || match.Status == models.MatchStatusConfirmed
	if !open || len(r.seated[matchID]) >= match.MaxParticipants {
		return repositories.ErrCapacityExceeded
	}
	r.seated[matchID] = append(r.seated[matchID], userID)
	return nil
}

func (r *fakeMatchRepo) RemoveParticipant(_ context.Context, matchID, userID int) error {
	seated := r.seated[matchID]
	for i, id := range seated {
		if id == userID {
			r.seated[matchID] = append(seated[:i], seated[i+1:]...)
			return nil
		}
	}
	return repositories.ErrParticipantNotFound
}

func (r *fakeMatchRepo) ListParticipants(ctx context.Context, matchID int) ([]models.User, error) {
	match, err := r.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return match.Participants, nil
}

func (r *fakeMatchRepo) UpdateStatus(_ context.Context, matchID int, from, to models.MatchStatus) error {
	match, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if match.Status != from {
		return repositories.ErrStatusConflict
	}
	match.Status = to
	return nil
}

func (r *fakeMatchRepo) Finish(ctx context.Context, matchID int, from models.MatchStatus, scoreA, scoreB int, stats []models.User) error {
	if err := r.UpdateStatus(ctx, matchID, from, models.MatchStatusFinished); err != nil {
		return err
	}
	match := r.matches[matchID]
	match.ScoreA = scoreA
	match.ScoreB = scoreB
	for _, s := range stats {
		if u, ok := r.users.users[s.ID]; ok {
			u.MatchesPlayed = s.MatchesPlayed
			u.Wins = s.Wins
			u.Losses = s.Losses
			u.Level = s.Level
		}
	}
	return nil
}

type fakeInviteRepo struct {
	matches *fakeMatchRepo
	nextID  int
	invites map[int]*models.Invite
}

func newFakeInviteRepo(matches *fakeMatchRepo) *fakeInviteRepo {
	return &fakeInviteRepo{matches: matches, nextID: 1, invites: make(map[int]*models.Invite)}
}

func (r *fakeInviteRepo) Create(_ context.Context, invite *models.Invite) error {
	for _, existing := range r.invites {
		if existing.MatchID == invite.MatchID &&
			existing.RecipientID == invite.RecipientID &&
			existing.Status == models.InviteStatusPending {
			return repositories.ErrInvitePendingConflict
		}
	}
	invite.ID = r.nextID
	r.nextID++
	invite.CreatedAt = time.Now()
	stored := *invite
	stored.Match = nil
	r.invites[invite.ID] = &stored
	return nil
}

func (r *fakeInviteRepo) GetByID(_ context.Context, id int) (*models.Invite, error) {
	invite, ok := r.invites[id]
	if !ok {
		return nil, repositories.ErrInviteNotFound
	}
	copied := *invite
	return &copied, nil
}

func (r *fakeInviteRepo) ListByRecipient(_ context.Context, recipientID int) ([]models.Invite, error) {
	out := make([]models.Invite, 0)
	for _, invite := range r.invites {
		if invite.RecipientID == recipientID {
			out = append(out, *invite)
		}
	}
	return out, nil
}

// Accept flips the status and seats the recipient as one unit, rolling the
// status back when the seat insert fails, like the real transaction.
func (r *fakeInviteRepo) Accept(ctx context.Context, inviteID, matchID, userID int) error {
	if err := r.UpdateStatus(ctx, inviteID, models.InviteStatusPending, models.InviteStatusAccepted); err != nil {
		return err
	}
	if err := r.matches.AddParticipant(ctx, matchID, userID); err != nil {
		r.invites[inviteID].Status = models.InviteStatusPending
		return err
	}
	return nil
}

func (r *fakeInviteRepo) UpdateStatus(_ context.Context, id int, from, to models.InviteStatus) error {
	invite, ok := r.invites[id]
	if !ok {
		return repositories.ErrInviteNotFound
	}
	if invite.Status != from {
		return repositories.ErrInviteStatusConflict
	}
	invite.Status = to
	return nil
}

func (r *fakeInviteRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	var expired int64
	for _, invite := range r.invites {
		if invite.Status == models.InviteStatusPending &&
			invite.ExpiresAt != nil && !invite.ExpiresAt.After(now) {
			invite.Status = models.InviteStatusExpired
			expired++
		}
	}
	return expired, nil
}

// recordingNotifier captures lifecycle events for assertions.
type recordingNotifier struct {
	events []notifiedTransition
}

type notifiedTransition struct {
	matchID  int
	from, to models.MatchStatus
}

func (n *recordingNotifier) NotifyMatchStatus(matchID int, from, to models.MatchStatus) {
	n.events = append(n.events, notifiedTransition{matchID: matchID, from: from, to: to})
}
