package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/galera-volei/galera-system/models"
)

var (
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchOrganizerInvalid = errors.New("match organizer invalid")
	ErrParticipantConflict   = errors.New("user is already a participant")
	ErrParticipantNotFound   = errors.New("participant not found")
	ErrCapacityExceeded      = errors.New("match capacity exceeded")
	ErrStatusConflict        = errors.New("match status changed concurrently")
)

// MatchFilter narrows List results. Zero value lists all public matches.
type MatchFilter struct {
	Category string
}

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter MatchFilter) ([]models.Match, error)
	AddParticipant(ctx context.Context, matchID, userID int) error
	RemoveParticipant(ctx context.Context, matchID, userID int) error
	ListParticipants(ctx context.Context, matchID int) ([]models.User, error)
	UpdateStatus(ctx context.Context, matchID int, from, to models.MatchStatus) error
	Finish(ctx context.Context, matchID int, from models.MatchStatus, scoreA, scoreB int, stats []models.User) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

// Create inserts the match and seats the organizer as its first
// participant in one transaction, so occupancy always counts them.
func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO matches (title, description, kind, category, starts_at, ends_at,
			duration_minutes, location, max_participants, public, status, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query,
		match.Title,
		match.Description,
		match.Kind,
		match.Category,
		match.StartsAt,
		match.EndsAt,
		match.DurationMinutes,
		match.Location,
		match.MaxParticipants,
		match.Public,
		match.Status,
		match.OrganizerID,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" && pqErr.Constraint == "matches_organizer_id_fkey" {
			return ErrMatchOrganizerInvalid
		}
		return fmt.Errorf("failed to insert match: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO match_participants (match_id, user_id) VALUES ($1, $2)`,
		match.ID, match.OrganizerID,
	)
	if err != nil {
		return fmt.Errorf("failed to seat organizer in match %d: %w", match.ID, err)
	}

	return tx.Commit()
}

const matchColumns = `
	m.id, m.title, m.description, m.kind, m.category, m.starts_at, m.ends_at,
	m.duration_minutes, m.location, m.max_participants, m.public, m.status,
	m.score_a, m.score_b, m.organizer_id, m.created_at, m.updated_at`

func scanMatch(row interface{ Scan(...any) error }, extra ...any) (*models.Match, error) {
	var match models.Match
	dest := []any{
		&match.ID,
		&match.Title,
		&match.Description,
		&match.Kind,
		&match.Category,
		&match.StartsAt,
		&match.EndsAt,
		&match.DurationMinutes,
		&match.Location,
		&match.MaxParticipants,
		&match.Public,
		&match.Status,
		&match.ScoreA,
		&match.ScoreB,
		&match.OrganizerID,
		&match.CreatedAt,
		&match.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &match, nil
}

// GetByID returns the match with its organizer and full participant list.
func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `,
			u.id, u.name, u.email, u.level, u.active, u.matches_played, u.wins, u.losses, u.created_at
		FROM matches m
		JOIN users u ON u.id = m.organizer_id
		WHERE m.id = $1`

	var organizer models.User
	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id),
		&organizer.ID,
		&organizer.Name,
		&organizer.Email,
		&organizer.Level,
		&organizer.Active,
		&organizer.MatchesPlayed,
		&organizer.Wins,
		&organizer.Losses,
		&organizer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	match.Organizer = &organizer

	participants, err := r.ListParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	if participants == nil {
		participants = []models.User{}
	}
	match.Participants = participants
	return match, nil
}

// List returns public matches with their aggregate occupancy. The full
// participant list is only loaded by GetByID; listings carry the count.
func (r *postgresMatchRepository) List(ctx context.Context, filter MatchFilter) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `,
			(SELECT COUNT(*) FROM match_participants mp WHERE mp.match_id = m.id)
		FROM matches m
		WHERE m.public
		  AND ($1 = '' OR m.category = $1)
		ORDER BY m.starts_at`

	rows, err := r.db.QueryContext(ctx, query, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		var count int
		match, err := scanMatch(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		match.ParticipantCount = &count
		matches = append(matches, *match)
	}
	return matches, rows.Err()
}

// addParticipant is the authoritative capacity check: a single conditional
// insert guarded by current occupancy and a joinable status, so concurrent
// joins cannot overshoot the limit. Zero affected rows means the guard
// failed; the caller classifies why against a fresh snapshot. The invite
// repository reuses it inside the accept transaction.
func addParticipant(ctx context.Context, exec SQLExecutor, matchID, userID int) error {
	query := `
		INSERT INTO match_participants (match_id, user_id)
		SELECT m.id, $2
		FROM matches m
		WHERE m.id = $1
		  AND m.status IN ('scheduled', 'confirmed')
		  AND (SELECT COUNT(*) FROM match_participants mp WHERE mp.match_id = m.id) < m.max_participants`

	result, err := exec.ExecContext(ctx, query, matchID, userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "match_participants_match_user_key" {
			return ErrParticipantConflict
		}
		return fmt.Errorf("failed to add participant %d to match %d: %w", userID, matchID, err)
	}
	return checkAffectedRows(result, ErrCapacityExceeded)
}

func (r *postgresMatchRepository) AddParticipant(ctx context.Context, matchID, userID int) error {
	return addParticipant(ctx, r.db, matchID, userID)
}

func (r *postgresMatchRepository) RemoveParticipant(ctx context.Context, matchID, userID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM match_participants WHERE match_id = $1 AND user_id = $2`,
		matchID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove participant %d from match %d: %w", userID, matchID, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresMatchRepository) ListParticipants(ctx context.Context, matchID int) ([]models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.level, u.active, u.matches_played, u.wins, u.losses, u.created_at
		FROM match_participants mp
		JOIN users u ON u.id = mp.user_id
		WHERE mp.match_id = $1
		ORDER BY mp.created_at`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants of match %d: %w", matchID, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Level,
			&user.Active,
			&user.MatchesPlayed,
			&user.Wins,
			&user.Losses,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateStatus is a compare-and-set: it only moves the match when the
// stored status still matches what the caller validated against.
func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, matchID int, from, to models.MatchStatus) error {
	return updateMatchStatus(ctx, r.db, matchID, from, to)
}

func updateMatchStatus(ctx context.Context, exec SQLExecutor, matchID int, from, to models.MatchStatus) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE matches SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`,
		to, matchID, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update status of match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrStatusConflict)
}

// Finish completes a match atomically: the status flip, the final scores
// and the participants' lifetime counters land in one transaction.
func (r *postgresMatchRepository) Finish(ctx context.Context, matchID int, from models.MatchStatus, scoreA, scoreB int, stats []models.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateMatchStatus(ctx, tx, matchID, from, models.MatchStatusFinished); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE matches SET score_a = $1, score_b = $2, ends_at = COALESCE(ends_at, now()) WHERE id = $3`,
		scoreA, scoreB, matchID,
	)
	if err != nil {
		return fmt.Errorf("failed to update scores of match %d: %w", matchID, err)
	}
	if err := checkAffectedRows(result, ErrMatchNotFound); err != nil {
		return err
	}

	for i := range stats {
		if err := updateUserStats(ctx, tx, &stats[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}
