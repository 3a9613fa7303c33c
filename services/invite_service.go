package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/galera-volei/galera-system/domain"
	"github.com/galera-volei/galera-system/models"
	"github.com/galera-volei/galera-system/repositories"
)

// Invites without an explicit expiry default to a week.
const defaultInviteTTL = 7 * 24 * time.Hour

type InviteService interface {
	ListReceived(ctx context.Context, userID int) ([]models.Invite, error)
	Create(ctx context.Context, senderID int, input CreateInviteInput) (*models.Invite, error)
	Accept(ctx context.Context, inviteID, userID int) (*models.Invite, error)
	Decline(ctx context.Context, inviteID, userID int) (*models.Invite, error)
	Candidates(ctx context.Context, matchID, userID int) ([]models.User, error)
	ExpireOverdue(ctx context.Context) (int64, error)
}

type CreateInviteInput struct {
	RecipientID int        `json:"recipient_id"`
	MatchID     int        `json:"match_id"`
	Message     *string    `json:"message,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type inviteService struct {
	inviteRepo repositories.InviteRepository
	matchRepo  repositories.MatchRepository
	userRepo   repositories.UserRepository
	now        func() time.Time
}

func NewInviteService(
	inviteRepo repositories.InviteRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
) InviteService {
	return &inviteService{
		inviteRepo: inviteRepo,
		matchRepo:  matchRepo,
		userRepo:   userRepo,
		now:        time.Now,
	}
}

func (s *inviteService) ListReceived(ctx context.Context, userID int) ([]models.Invite, error) {
	invites, err := s.inviteRepo.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	return invites, nil
}

// Create issues an invitation. Only the match organizer invites, the match
// must still be open for joins, and the recipient must not already be in it.
func (s *inviteService) Create(ctx context.Context, senderID int, input CreateInviteInput) (*models.Invite, error) {
	match, err := s.getMatch(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}
	if match.OrganizerID != senderID {
		return nil, domain.ErrForbidden
	}
	if !domain.CanModifyParticipants(match.Status) {
		return nil, domain.ErrInvalidState
	}
	if input.RecipientID == senderID {
		return nil, ErrInviteSelf
	}
	if domain.IsParticipant(input.RecipientID, match) {
		return nil, ErrRecipientIneligible
	}
	if _, err := s.userRepo.GetByID(ctx, input.RecipientID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipient %d: %w", input.RecipientID, err)
	}

	expiresAt := input.ExpiresAt
	if expiresAt == nil {
		t := s.now().Add(defaultInviteTTL)
		expiresAt = &t
	}

	invite := &models.Invite{
		Status:      models.InviteStatusPending,
		SenderID:    senderID,
		RecipientID: input.RecipientID,
		MatchID:     input.MatchID,
		Message:     input.Message,
		ExpiresAt:   expiresAt,
	}

	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		switch {
		case errors.Is(err, repositories.ErrInvitePendingConflict):
			return nil, ErrInvitePending
		case errors.Is(err, repositories.ErrInviteUserInvalid):
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return invite, nil
}

// Accept is the compound operation: the domain check predicts the outcome,
// then the repository flips the status and seats the recipient atomically.
// A second accept of the same invite fails the pending check with a state
// error; the membership is never duplicated.
func (s *inviteService) Accept(ctx context.Context, inviteID, userID int) (*models.Invite, error) {
	invite, user, err := s.loadForResponse(ctx, inviteID, userID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanAcceptInvite(user, invite, s.now()); err != nil {
		return nil, err
	}

	if err := s.inviteRepo.Accept(ctx, inviteID, invite.MatchID, userID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrInviteStatusConflict):
			return nil, domain.ErrInvalidState
		case errors.Is(err, repositories.ErrParticipantConflict):
			return nil, ErrAlreadyParticipant
		case errors.Is(err, repositories.ErrCapacityExceeded):
			return nil, domain.ErrMatchFull
		}
		return nil, err
	}

	return s.inviteRepo.GetByID(ctx, inviteID)
}

func (s *inviteService) Decline(ctx context.Context, inviteID, userID int) (*models.Invite, error) {
	invite, user, err := s.loadForResponse(ctx, inviteID, userID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanDeclineInvite(user, invite, s.now()); err != nil {
		return nil, err
	}

	err = s.inviteRepo.UpdateStatus(ctx, inviteID, models.InviteStatusPending, models.InviteStatusDeclined)
	if err != nil {
		if errors.Is(err, repositories.ErrInviteStatusConflict) {
			return nil, domain.ErrInvalidState
		}
		return nil, err
	}

	return s.inviteRepo.GetByID(ctx, inviteID)
}

// Candidates lists who the organizer can still invite: the repository
// query already excludes participants and the organizer.
func (s *inviteService) Candidates(ctx context.Context, matchID, userID int) ([]models.User, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.OrganizerID != userID {
		return nil, domain.ErrForbidden
	}
	return s.userRepo.ListInvitable(ctx, matchID)
}

func (s *inviteService) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.inviteRepo.ExpireOverdue(ctx, s.now())
}

func (s *inviteService) getMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	return match, nil
}

// loadForResponse fetches the invite with a fresh match snapshot attached,
// so the domain checks see current occupancy and status.
func (s *inviteService) loadForResponse(ctx context.Context, inviteID, userID int) (*models.Invite, *models.User, error) {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get invite %d: %w", inviteID, err)
	}

	match, err := s.getMatch(ctx, invite.MatchID)
	if err != nil {
		return nil, nil, err
	}
	invite.Match = match

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return invite, user, nil
}
