package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/galera-volei/galera-system/models"
	"github.com/galera-volei/galera-system/services"
)

type inviteList struct {
	Invites []models.Invite `json:"invites"`
}

type candidateList struct {
	Candidates []models.User `json:"candidates"`
}

// Invites lists the caller's received invitations, newest first.
func (c *Client) Invites(ctx context.Context) ([]models.Invite, error) {
	var list inviteList
	if err := c.do(ctx, http.MethodGet, "/invites/received", nil, &list); err != nil {
		return nil, err
	}
	return list.Invites, nil
}

func (c *Client) SendInvite(ctx context.Context, input services.CreateInviteInput) (*models.Invite, error) {
	var invite models.Invite
	if err := c.do(ctx, http.MethodPost, "/invites", input, &invite); err != nil {
		return nil, err
	}
	return &invite, nil
}

// AcceptInvite accepts and seats the caller in the match in one step.
func (c *Client) AcceptInvite(ctx context.Context, id int) (*models.Invite, error) {
	var invite models.Invite
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/invites/%d/accept", id), nil, &invite); err != nil {
		return nil, err
	}
	return &invite, nil
}

func (c *Client) DeclineInvite(ctx context.Context, id int) (*models.Invite, error) {
	var invite models.Invite
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/invites/%d/decline", id), nil, &invite); err != nil {
		return nil, err
	}
	return &invite, nil
}

// Candidates lists users the caller can still invite to their match.
func (c *Client) Candidates(ctx context.Context, matchID int) ([]models.User, error) {
	var list candidateList
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/matches/%d/candidates", matchID), nil, &list); err != nil {
		return nil, err
	}
	return list.Candidates, nil
}
