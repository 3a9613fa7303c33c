package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/galera-volei/galera-system/models"
)

// Dashboard is the data a home screen needs in one shot.
type Dashboard struct {
	User    *models.User
	Matches []models.Match
	Invites []models.Invite
}

// FetchDashboard loads profile, match list, and invite inbox in parallel.
// The first failure cancels the rest.
func (c *Client) FetchDashboard(ctx context.Context, category string) (*Dashboard, error) {
	var dashboard Dashboard

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := c.Me(ctx)
		if err != nil {
			return err
		}
		dashboard.User = user
		return nil
	})
	g.Go(func() error {
		matches, err := c.Matches(ctx, category)
		if err != nil {
			return err
		}
		dashboard.Matches = matches
		return nil
	})
	g.Go(func() error {
		invites, err := c.Invites(ctx)
		if err != nil {
			return err
		}
		dashboard.Invites = invites
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dashboard, nil
}
