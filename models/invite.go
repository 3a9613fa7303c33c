package models

import "time"

// InviteStatus represents invitation lifecycle states. Pending is the only
// non-terminal state; everything else absorbs.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
	InviteStatusExpired  InviteStatus = "expired"
)

type Invite struct {
	ID          int          `json:"id" db:"id"`
	Status      InviteStatus `json:"status" db:"status"`
	SenderID    int          `json:"sender_id" db:"sender_id"`
	RecipientID int          `json:"recipient_id" db:"recipient_id"`
	MatchID     int          `json:"match_id" db:"match_id"`
	Message     *string      `json:"message,omitempty" db:"message"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty" db:"updated_at"`

	// Related entities, populated by joins where requested.
	Sender    *User  `json:"sender,omitempty" db:"-"`
	Recipient *User  `json:"recipient,omitempty" db:"-"`
	Match     *Match `json:"match,omitempty" db:"-"`
}
