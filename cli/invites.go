package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/galera-volei/galera-system/services"
)

func newInvitesCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invites",
		Short: "Manage match invitations",
	}

	cmd.AddCommand(newInvitesListCommand(app))
	cmd.AddCommand(newInvitesSendCommand(app))
	cmd.AddCommand(newInvitesAcceptCommand(app))
	cmd.AddCommand(newInvitesDeclineCommand(app))
	cmd.AddCommand(newInvitesCandidatesCommand(app))

	return cmd
}

func newInvitesListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show your received invitations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			invites, err := app.API.Invites(cmd.Context())
			if err != nil {
				return err
			}
			if len(invites) == 0 {
				fmt.Fprintln(app.Out, "No invitations.")
				return nil
			}

			w := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFROM\tMATCH\tSTATUS\tEXPIRES")
			for _, inv := range invites {
				from, match := "?", "?"
				if inv.Sender != nil {
					from = inv.Sender.Name
				}
				if inv.Match != nil {
					match = fmt.Sprintf("#%d %s", inv.Match.ID, inv.Match.Title)
				}
				expires := "-"
				if inv.ExpiresAt != nil {
					expires = inv.ExpiresAt.Local().Format("02 Jan 15:04")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", inv.ID, from, match, inv.Status, expires)
			}
			return w.Flush()
		},
	}
}

func newInvitesSendCommand(app *App) *cobra.Command {
	var (
		matchID, recipientID int
		message              string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Invite a player to your match (organizer only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}

			input := services.CreateInviteInput{
				MatchID:     matchID,
				RecipientID: recipientID,
			}
			if message != "" {
				input.Message = &message
			}

			invite, err := app.API.SendInvite(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Invite #%d sent.\n", invite.ID)
			return nil
		},
	}

	cmd.Flags().IntVarP(&matchID, "match", "m", 0, "match id")
	cmd.Flags().IntVarP(&recipientID, "to", "u", 0, "recipient user id")
	cmd.Flags().StringVar(&message, "message", "", "optional note for the recipient")
	cmd.MarkFlagRequired("match")
	cmd.MarkFlagRequired("to")

	return cmd
}

func newInvitesAcceptCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <id>",
		Short: "Accept an invitation and take your spot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			id, err := inviteID(args[0])
			if err != nil {
				return err
			}
			invite, err := app.API.AcceptInvite(cmd.Context(), id)
			if err != nil {
				return joinFailure(err)
			}
			if invite.Match != nil {
				fmt.Fprintf(app.Out, "Accepted. See you at %q!\n", invite.Match.Title)
			} else {
				fmt.Fprintln(app.Out, "Accepted.")
			}
			return nil
		},
	}
}

func newInvitesDeclineCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "decline <id>",
		Short: "Decline an invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			id, err := inviteID(args[0])
			if err != nil {
				return err
			}
			if _, err := app.API.DeclineInvite(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "Declined.")
			return nil
		},
	}
}

func newInvitesCandidatesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "candidates <match-id>",
		Short: "List players you can still invite (organizer only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			id, err := matchID(args[0])
			if err != nil {
				return err
			}
			users, err := app.API.Candidates(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(app.Out, "No one left to invite.")
				return nil
			}

			w := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLEVEL\tPLAYED")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", u.ID, u.Name, u.Level, u.MatchesPlayed)
			}
			return w.Flush()
		},
	}
}

func inviteID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid invite id %q", arg)
	}
	return id, nil
}
