package services

import "errors"

// Validation and business-rule errors shared across services. The domain
// package owns the rejection categories (eligibility, capacity, state,
// and so on); these cover input problems caught before any mutation is
// attempted, plus a few auth specifics.
var (
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrNameRequired       = errors.New("name is required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email address is already in use")

	ErrTitleRequired        = errors.New("match title is required")
	ErrInvalidKind          = errors.New("invalid match kind")
	ErrInvalidCategory      = errors.New("invalid match category")
	ErrInvalidCapacity      = errors.New("match max participants must be positive")
	ErrInvalidDateRange     = errors.New("match end must be after its start")
	ErrAlreadyParticipant   = errors.New("user is already a participant of this match")
	ErrOrganizerCannotLeave = errors.New("the organizer cannot leave their own match")
	ErrNotParticipant       = errors.New("user is not a participant of this match")
	ErrInvalidWinner        = errors.New("winner is not a participant of this match")

	ErrInvitePending       = errors.New("recipient already holds a pending invite for this match")
	ErrInviteSelf          = errors.New("cannot invite yourself")
	ErrRecipientIneligible = errors.New("recipient is already part of this match")
)
