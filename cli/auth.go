package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/galera-volei/galera-system/domain"
)

func newLoginCommand(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Signed in as %s (%s)\n", user.Name, user.Level)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newRegisterCommand(app *App) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.Session.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Welcome, %s! You start at level %s.\n", user.Name, user.Level)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Session.Logout()
			fmt.Fprintln(app.Out, "Signed out.")
			return nil
		},
	}
}

func newProfileCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your level, record, and progression",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}

			// Fresh snapshot; the session copy can be stale after matches finish.
			user, err := app.API.Me(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "%s <%s>\n", user.Name, user.Email)
			fmt.Fprintf(app.Out, "Level:    %s (%.0f%% toward pro player)\n", user.Level, domain.Progress(user.MatchesPlayed))
			fmt.Fprintf(app.Out, "Played:   %d\n", user.MatchesPlayed)
			fmt.Fprintf(app.Out, "Record:   %dW / %dL (%.0f%% win rate)\n", user.Wins, user.Losses, domain.WinRate(user.Wins, user.MatchesPlayed)*100)
			return nil
		},
	}
}
