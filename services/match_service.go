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

// MatchStatusNotifier receives lifecycle transitions for fan-out to
// connected clients. The realtime hub implements it.
type MatchStatusNotifier interface {
	NotifyMatchStatus(matchID int, from, to models.MatchStatus)
}

type MatchService interface {
	List(ctx context.Context, category string) ([]models.Match, error)
	Get(ctx context.Context, id int) (*models.Match, error)
	Create(ctx context.Context, organizerID int, input CreateMatchInput) (*models.Match, error)
	Join(ctx context.Context, matchID, userID int) (*models.Match, error)
	Leave(ctx context.Context, matchID, userID int) (*models.Match, error)
	Transition(ctx context.Context, matchID, userID int, input TransitionInput) (*models.Match, error)
}

type CreateMatchInput struct {
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	Kind            string     `json:"kind"`
	Category        string     `json:"category"`
	StartsAt        time.Time  `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Location        *string    `json:"location,omitempty"`
	MaxParticipants int        `json:"max_participants"`
	Public          *bool      `json:"public,omitempty"`
}

type TransitionInput struct {
	Status models.MatchStatus `json:"status"`
	// Final scores and winners, only meaningful when finishing.
	ScoreA    int   `json:"score_a"`
	ScoreB    int   `json:"score_b"`
	WinnerIDs []int `json:"winner_ids,omitempty"`
}

type matchService struct {
	matchRepo repositories.MatchRepository
	userRepo  repositories.UserRepository
	notifier  MatchStatusNotifier
}

func NewMatchService(matchRepo repositories.MatchRepository, userRepo repositories.UserRepository, notifier MatchStatusNotifier) MatchService {
	return &matchService{matchRepo: matchRepo, userRepo: userRepo, notifier: notifier}
}

func (s *matchService) List(ctx context.Context, category string) ([]models.Match, error) {
	matches, err := s.matchRepo.List(ctx, repositories.MatchFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (s *matchService) Get(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return match, nil
}

func (s *matchService) Create(ctx context.Context, organizerID int, input CreateMatchInput) (*models.Match, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.MaxParticipants <= 0 {
		return nil, ErrInvalidCapacity
	}
	if input.StartsAt.IsZero() {
		return nil, ErrInvalidDateRange
	}
	if input.EndsAt != nil && !input.EndsAt.After(input.StartsAt) {
		return nil, ErrInvalidDateRange
	}

	kind := models.MatchKind(input.Kind)
	if kind == "" {
		kind = models.MatchKindCasual
	}
	if kind != models.MatchKindCasual && kind != models.MatchKindCompetitive {
		return nil, ErrInvalidKind
	}

	category := input.Category
	if category == "" {
		category = models.CategoryLivre
	}
	if !domain.IsUnrestricted(category) && domain.LevelRank(models.Level(category)) == 0 {
		return nil, ErrInvalidCategory
	}

	duration := input.DurationMinutes
	if duration <= 0 {
		duration = 90
	}
	public := true
	if input.Public != nil {
		public = *input.Public
	}

	match := &models.Match{
		Title:           input.Title,
		Description:     input.Description,
		Kind:            kind,
		Category:        category,
		StartsAt:        input.StartsAt,
		EndsAt:          input.EndsAt,
		DurationMinutes: duration,
		Location:        input.Location,
		MaxParticipants: input.MaxParticipants,
		Public:          public,
		Status:          models.MatchStatusScheduled,
		OrganizerID:     organizerID,
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchOrganizerInvalid) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return s.Get(ctx, match.ID)
}

// Join re-verifies the gate server-side and then relies on the conditional
// insert for the capacity race. The pre-checks only avoid futile writes
// and give precise denial reasons; the insert is what actually holds the
// invariant.
func (s *matchService) Join(ctx context.Context, matchID, userID int) (*models.Match, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	match, err := s.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if domain.IsParticipant(userID, match) {
		return nil, ErrAlreadyParticipant
	}

	decision, err := domain.CanJoin(user, match)
	if err != nil {
		return nil, err
	}
	if reason := decision.Reason(); reason != nil {
		return nil, reason
	}

	if err := s.matchRepo.AddParticipant(ctx, matchID, userID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantConflict):
			return nil, ErrAlreadyParticipant
		case errors.Is(err, repositories.ErrCapacityExceeded):
			return nil, s.classifyJoinRejection(ctx, matchID)
		}
		return nil, err
	}

	return s.Get(ctx, matchID)
}

// classifyJoinRejection tells a lost capacity race apart from a status
// that flipped between the pre-check and the insert.
func (s *matchService) classifyJoinRejection(ctx context.Context, matchID int) error {
	match, err := s.Get(ctx, matchID)
	if err != nil {
		return err
	}
	if !domain.CanModifyParticipants(match.Status) {
		return domain.ErrInvalidState
	}
	return domain.ErrMatchFull
}

func (s *matchService) Leave(ctx context.Context, matchID, userID int) (*models.Match, error) {
	match, err := s.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if userID == match.OrganizerID {
		return nil, ErrOrganizerCannotLeave
	}
	if !domain.CanModifyParticipants(match.Status) {
		return nil, domain.ErrInvalidState
	}

	if err := s.matchRepo.RemoveParticipant(ctx, matchID, userID); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrNotParticipant
		}
		return nil, err
	}

	return s.Get(ctx, matchID)
}

// Transition applies an organizer lifecycle action. Finishing also settles
// scores and the participants' lifetime counters in one transaction.
func (s *matchService) Transition(ctx context.Context, matchID, userID int, input TransitionInput) (*models.Match, error) {
	match, err := s.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if userID != match.OrganizerID {
		return nil, domain.ErrForbidden
	}
	if !domain.CanTransitionMatch(match.Status, input.Status) {
		return nil, domain.ErrInvalidState
	}

	if input.Status == models.MatchStatusFinished {
		stats, err := s.settleStats(match, input)
		if err != nil {
			return nil, err
		}
		err = s.matchRepo.Finish(ctx, matchID, match.Status, input.ScoreA, input.ScoreB, stats)
		if err != nil {
			if errors.Is(err, repositories.ErrStatusConflict) {
				return nil, domain.ErrInvalidState
			}
			return nil, err
		}
	} else {
		if err := s.matchRepo.UpdateStatus(ctx, matchID, match.Status, input.Status); err != nil {
			if errors.Is(err, repositories.ErrStatusConflict) {
				return nil, domain.ErrInvalidState
			}
			return nil, err
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyMatchStatus(matchID, match.Status, input.Status)
	}
	return s.Get(ctx, matchID)
}

// settleStats bumps every participant's played count, splits wins and
// losses by the winner list when one is given, and promotes levels.
// Progression only moves up: a stored level above the recomputed one wins.
func (s *matchService) settleStats(match *models.Match, input TransitionInput) ([]models.User, error) {
	winners := make(map[int]bool, len(input.WinnerIDs))
	for _, id := range input.WinnerIDs {
		if !domain.IsParticipant(id, match) {
			return nil, ErrInvalidWinner
		}
		winners[id] = true
	}

	stats := make([]models.User, 0, len(match.Participants))
	for _, p := range match.Participants {
		p.MatchesPlayed++
		if len(winners) > 0 {
			if winners[p.ID] {
				p.Wins++
			} else {
				p.Losses++
			}
		}
		if earned := domain.LevelForPlayed(p.MatchesPlayed); domain.CompareLevels(earned, p.Level) > 0 {
			p.Level = earned
		}
		stats = append(stats, p)
	}
	return stats, nil
}
