package domain

import (
	"time"

	"github.com/galera-volei/galera-system/models"
)

// InviteTerminal reports whether the invitation can change no further.
// Unknown statuses behave as terminal.
func InviteTerminal(status models.InviteStatus) bool {
	return status != models.InviteStatusPending
}

// InviteExpired reports whether a pending invitation has passed its expiry.
// Invitations without an expiry never expire by time.
func InviteExpired(inv *models.Invite, now time.Time) bool {
	return inv.ExpiresAt != nil && now.After(*inv.ExpiresAt)
}

// InviteActionable reports whether accept/decline affordances apply: the
// invitation must still be pending and unexpired, and its target match must
// not have reached a terminal state. A pending invitation to a finished or
// cancelled match is implicitly dead even before the sweeper expires it.
func InviteActionable(inv *models.Invite, now time.Time) bool {
	if InviteTerminal(inv.Status) || InviteExpired(inv, now) {
		return false
	}
	if inv.Match != nil && MatchTerminal(inv.Match.Status) {
		return false
	}
	return true
}

// CanAcceptInvite decides whether the user may accept the invitation.
// Accepting is compound (it also joins the target match), so the full
// join gate applies on top of the invitation's own state machine. A second
// accept attempt fails on the pending check, never with a double join.
func CanAcceptInvite(user *models.User, inv *models.Invite, now time.Time) error {
	if err := canRespond(user, inv, now); err != nil {
		return err
	}
	if inv.Match != nil {
		decision, err := CanJoin(user, inv.Match)
		if err != nil {
			return err
		}
		if reason := decision.Reason(); reason != nil {
			return reason
		}
	}
	return nil
}

// CanDeclineInvite decides whether the user may decline the invitation.
// Declining needs no join gate; only the invitation state matters.
func CanDeclineInvite(user *models.User, inv *models.Invite, now time.Time) error {
	return canRespond(user, inv, now)
}

func canRespond(user *models.User, inv *models.Invite, now time.Time) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if inv.RecipientID != user.ID {
		return ErrForbidden
	}
	if !InviteActionable(inv, now) {
		return ErrInvalidState
	}
	return nil
}
