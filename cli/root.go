// Package cli is the terminal front end: a thin layer over the client SDK
// and session manager, with the domain package driving what actions are
// offered for each match.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/galera-volei/galera-system/client"
	"github.com/galera-volei/galera-system/config"
	"github.com/galera-volei/galera-system/domain"
	"github.com/galera-volei/galera-system/session"
)

// App carries the dependencies every command shares.
type App struct {
	API     *client.Client
	Session *session.Manager
	Out     io.Writer
}

// NewRootCommand builds the command tree. The persisted session is restored
// once, before any subcommand runs; commands that need a login check
// Session.Authenticated themselves.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "galera",
		Short:         "Organize and join recreational volleyball matches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	app := &App{}
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadClient()
		if err != nil {
			return err
		}
		app.API = client.New(cfg.APIBaseURL)
		app.Session = session.NewManager(app.API, cfg.TokenPath)
		app.Out = cmd.OutOrStdout()
		app.Session.Init(cmd.Context())
		return nil
	}

	cmd.AddCommand(newLoginCommand(app))
	cmd.AddCommand(newRegisterCommand(app))
	cmd.AddCommand(newLogoutCommand(app))
	cmd.AddCommand(newProfileCommand(app))
	cmd.AddCommand(newMatchesCommand(app))
	cmd.AddCommand(newInvitesCommand(app))

	return cmd
}

func (a *App) requireSession() error {
	if !a.Session.Authenticated() {
		return fmt.Errorf("not signed in (run 'galera login'): %w", domain.ErrUnauthenticated)
	}
	return nil
}
