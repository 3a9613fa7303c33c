package models

import "time"

// MatchStatus represents match lifecycle states, matching the ENUM in the DB.
// Tokens outside this set are rendered as-is but behave like inactive.
type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusConfirmed  MatchStatus = "confirmed"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusFinished   MatchStatus = "finished"
	MatchStatusCancelled  MatchStatus = "cancelled"
	MatchStatusInactive   MatchStatus = "inactive"
)

type MatchKind string

const (
	MatchKindCasual      MatchKind = "casual"
	MatchKindCompetitive MatchKind = "competitive"
)

// CategoryLivre is the unrestricted category: any level may join.
const CategoryLivre = "livre"

// Match carries two redundant occupancy signals: the Participants list and
// the aggregate ParticipantCount. Older backend payloads populate only the
// count; derivations go through domain.Occupancy, never both fields at once.
type Match struct {
	ID              int         `json:"id" db:"id"`
	Title           string      `json:"title" db:"title"`
	Description     *string     `json:"description,omitempty" db:"description"`
	Kind            MatchKind   `json:"kind" db:"kind"`
	Category        string      `json:"category" db:"category"`
	StartsAt        time.Time   `json:"starts_at" db:"starts_at"`
	EndsAt          *time.Time  `json:"ends_at,omitempty" db:"ends_at"`
	DurationMinutes int         `json:"duration_minutes" db:"duration_minutes"`
	Location        *string     `json:"location,omitempty" db:"location"`
	MaxParticipants int         `json:"max_participants" db:"max_participants"`
	Public          bool        `json:"public" db:"public"`
	Status          MatchStatus `json:"status" db:"status"`
	ScoreA          int         `json:"score_a" db:"score_a"`
	ScoreB          int         `json:"score_b" db:"score_b"`
	OrganizerID     int         `json:"organizer_id" db:"organizer_id"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       *time.Time  `json:"updated_at,omitempty" db:"updated_at"`

	// Related entities, populated by joins where requested.
	Organizer        *User  `json:"organizer,omitempty" db:"-"`
	Participants     []User `json:"participants,omitempty" db:"-"`
	ParticipantCount *int   `json:"participant_count,omitempty" db:"-"`
}
