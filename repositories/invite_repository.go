package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/galera-volei/galera-system/models"
)

var (
	ErrInviteNotFound        = errors.New("invite not found")
	ErrInvitePendingConflict = errors.New("recipient already holds a pending invite for this match")
	ErrInviteStatusConflict  = errors.New("invite status changed concurrently")
	ErrInviteUserInvalid     = errors.New("invite references an unknown user or match")
)

type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	GetByID(ctx context.Context, id int) (*models.Invite, error)
	ListByRecipient(ctx context.Context, recipientID int) ([]models.Invite, error)
	Accept(ctx context.Context, inviteID, matchID, userID int) error
	UpdateStatus(ctx context.Context, id int, from, to models.InviteStatus) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type postgresInviteRepository struct {
	db *sql.DB
}

func NewPostgresInviteRepository(db *sql.DB) InviteRepository {
	return &postgresInviteRepository{db: db}
}

func (r *postgresInviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	query := `
		INSERT INTO invites (status, sender_id, recipient_id, match_id, message, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		invite.Status,
		invite.SenderID,
		invite.RecipientID,
		invite.MatchID,
		invite.Message,
		invite.ExpiresAt,
	).Scan(&invite.ID, &invite.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return ErrInvitePendingConflict
			case "23503":
				return ErrInviteUserInvalid
			}
		}
		return fmt.Errorf("failed to insert invite: %w", err)
	}
	return nil
}

const inviteColumns = `
	i.id, i.status, i.sender_id, i.recipient_id, i.match_id, i.message,
	i.expires_at, i.created_at, i.updated_at`

func scanInvite(row interface{ Scan(...any) error }, extra ...any) (*models.Invite, error) {
	var invite models.Invite
	dest := []any{
		&invite.ID,
		&invite.Status,
		&invite.SenderID,
		&invite.RecipientID,
		&invite.MatchID,
		&invite.Message,
		&invite.ExpiresAt,
		&invite.CreatedAt,
		&invite.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *postgresInviteRepository) GetByID(ctx context.Context, id int) (*models.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites i WHERE i.id = $1`

	invite, err := scanInvite(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invite %d: %w", id, err)
	}
	return invite, nil
}

// ListByRecipient returns the user's invites newest first, each with its
// sender and target match attached for rendering.
func (r *postgresInviteRepository) ListByRecipient(ctx context.Context, recipientID int) ([]models.Invite, error) {
	query := `
		SELECT ` + inviteColumns + `,
			s.id, s.name, s.level,
			m.id, m.title, m.category, m.starts_at, m.location, m.max_participants, m.status, m.organizer_id,
			(SELECT COUNT(*) FROM match_participants mp WHERE mp.match_id = m.id)
		FROM invites i
		JOIN users s ON s.id = i.sender_id
		JOIN matches m ON m.id = i.match_id
		WHERE i.recipient_id = $1
		ORDER BY i.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites for user %d: %w", recipientID, err)
	}
	defer rows.Close()

	var invites []models.Invite
	for rows.Next() {
		var sender models.User
		var match models.Match
		var count int
		invite, err := scanInvite(rows,
			&sender.ID, &sender.Name, &sender.Level,
			&match.ID, &match.Title, &match.Category, &match.StartsAt,
			&match.Location, &match.MaxParticipants, &match.Status, &match.OrganizerID,
			&count,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		match.ParticipantCount = &count
		invite.Sender = &sender
		invite.Match = &match
		invites = append(invites, *invite)
	}
	return invites, rows.Err()
}

// Accept flips the invite to accepted and seats the recipient in one
// transaction. Either both happen or neither: a lost capacity race rolls
// the status flip back, and a concurrent decline aborts before the join.
func (r *postgresInviteRepository) Accept(ctx context.Context, inviteID, matchID, userID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE invites SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`,
		models.InviteStatusAccepted, inviteID, models.InviteStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to accept invite %d: %w", inviteID, err)
	}
	if err := checkAffectedRows(result, ErrInviteStatusConflict); err != nil {
		return err
	}

	if err := addParticipant(ctx, tx, matchID, userID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresInviteRepository) UpdateStatus(ctx context.Context, id int, from, to models.InviteStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invites SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update status of invite %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrInviteStatusConflict)
}

// ExpireOverdue sweeps pending invites past their expiry. Terminal invites
// are never touched.
func (r *postgresInviteRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invites SET status = $1, updated_at = now()
		 WHERE status = $2 AND expires_at IS NOT NULL AND expires_at < $3`,
		models.InviteStatusExpired, models.InviteStatusPending, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire overdue invites: %w", err)
	}
	return result.RowsAffected()
}
