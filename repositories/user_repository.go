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
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListInvitable(ctx context.Context, matchID int) ([]models.User, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, level, active, matches_played, wins, losses, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Level,
		&user.Active,
		&user.MatchesPlayed,
		&user.Wins,
		&user.Losses,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, level)
		VALUES ($1, $2, $3, $4)
		RETURNING id, active, matches_played, wins, losses, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Level,
	).Scan(&user.ID, &user.Active, &user.MatchesPlayed, &user.Wins, &user.Losses, &user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "users_email_key" {
			return ErrUserEmailConflict
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// updateUserStats writes the lifetime counters and level. It runs inside
// the match-completion transaction, hence the executor parameter.
func updateUserStats(ctx context.Context, exec SQLExecutor, user *models.User) error {
	query := `
		UPDATE users
		SET matches_played = $1, wins = $2, losses = $3, level = $4, updated_at = now()
		WHERE id = $5`

	result, err := exec.ExecContext(ctx, query,
		user.MatchesPlayed,
		user.Wins,
		user.Losses,
		user.Level,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stats for user %d: %w", user.ID, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

// ListInvitable returns active users who can still be invited to a match:
// everyone except current participants and the organizer.
func (r *postgresUserRepository) ListInvitable(ctx context.Context, matchID int) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		WHERE u.active
		  AND u.id NOT IN (SELECT user_id FROM match_participants WHERE match_id = $1)
		  AND u.id NOT IN (SELECT organizer_id FROM matches WHERE id = $1)
		ORDER BY u.name`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitable users for match %d: %w", matchID, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitable user: %w", err)
		}
		user.PasswordHash = ""
		users = append(users, *user)
	}
	return users, rows.Err()
}
