package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/galera-volei/galera-system/models"
	"github.com/galera-volei/galera-system/services"
)

type matchList struct {
	Matches []models.Match `json:"matches"`
}

// Matches lists scheduled matches, optionally filtered by category.
func (c *Client) Matches(ctx context.Context, category string) ([]models.Match, error) {
	path := "/matches"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var list matchList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list.Matches, nil
}

// Match fetches one match with its full participant list attached.
func (c *Client) Match(ctx context.Context, id int) (*models.Match, error) {
	var match models.Match
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/matches/%d", id), nil, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (c *Client) CreateMatch(ctx context.Context, input services.CreateMatchInput) (*models.Match, error) {
	var match models.Match
	if err := c.do(ctx, http.MethodPost, "/matches", input, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// JoinMatch claims a spot. The server is the authority: a denial comes back
// with its category intact (domain.ErrMatchFull, domain.ErrNotEligible,
// domain.ErrInvalidState), regardless of what a stale local snapshot said.
func (c *Client) JoinMatch(ctx context.Context, id int) (*models.Match, error) {
	var match models.Match
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/matches/%d/join", id), nil, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (c *Client) LeaveMatch(ctx context.Context, id int) (*models.Match, error) {
	var match models.Match
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/matches/%d/join", id), nil, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// UpdateMatchStatus applies an organizer lifecycle action.
func (c *Client) UpdateMatchStatus(ctx context.Context, id int, input services.TransitionInput) (*models.Match, error) {
	var match models.Match
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/matches/%d/status", id), input, &match); err != nil {
		return nil, err
	}
	return &match, nil
}
