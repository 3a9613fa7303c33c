package models

import "time"

// Level is a user's skill tier. The backend may hand out tokens outside
// this set; comparisons treat those as the lowest tier (see domain).
type Level string

const (
	LevelNoob          Level = "noob"
	LevelAmador        Level = "amador"
	LevelIntermediario Level = "intermediario"
	LevelProPlayer     Level = "proplayer"
)

type User struct {
	ID            int        `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Email         string     `json:"email" db:"email"`
	Level         Level      `json:"level" db:"level"`
	Active        bool       `json:"active" db:"active"`
	MatchesPlayed int        `json:"matches_played" db:"matches_played"`
	Wins          int        `json:"wins" db:"wins"`
	Losses        int        `json:"losses" db:"losses"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
