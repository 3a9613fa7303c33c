package cli

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/galera-volei/galera-system/domain"
	"github.com/galera-volei/galera-system/models"
	"github.com/galera-volei/galera-system/services"
)

func newMatchesCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Browse, create, and play matches",
	}

	cmd.AddCommand(newMatchesListCommand(app))
	cmd.AddCommand(newMatchesShowCommand(app))
	cmd.AddCommand(newMatchesCreateCommand(app))
	cmd.AddCommand(newMatchesJoinCommand(app))
	cmd.AddCommand(newMatchesLeaveCommand(app))
	cmd.AddCommand(newMatchesStatusCommand(app))

	return cmd
}

func newMatchesListCommand(app *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := app.API.Matches(cmd.Context(), category)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Fprintln(app.Out, "No matches found.")
				return nil
			}

			w := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tSTATUS\tSPOTS\tSTARTS")
			for i := range matches {
				m := &matches[i]
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d/%d\t%s\n",
					m.ID, m.Title, m.Category, m.Status,
					domain.Occupancy(m), m.MaxParticipants,
					m.StartsAt.Local().Format("Mon 02 Jan 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by skill category")

	return cmd
}

func newMatchesShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one match with participants and available actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := matchID(args[0])
			if err != nil {
				return err
			}
			match, err := app.API.Match(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "#%d %s [%s]\n", match.ID, match.Title, match.Status)
			if match.Description != nil {
				fmt.Fprintln(app.Out, *match.Description)
			}
			fmt.Fprintf(app.Out, "Category: %s  Kind: %s\n", match.Category, match.Kind)
			if match.Location != nil {
				fmt.Fprintf(app.Out, "Location: %s\n", *match.Location)
			}
			fmt.Fprintf(app.Out, "Starts:   %s\n", match.StartsAt.Local().Format("Mon 02 Jan 15:04"))
			fmt.Fprintf(app.Out, "Spots:    %d/%d (%d open)\n",
				domain.Occupancy(match), match.MaxParticipants, domain.Vacancies(match))
			if domain.ScoresMeaningful(match.Status) {
				fmt.Fprintf(app.Out, "Score:    %d x %d\n", match.ScoreA, match.ScoreB)
			}

			if len(match.Participants) > 0 {
				fmt.Fprintln(app.Out, "Participants:")
				for _, p := range match.Participants {
					marker := ""
					if p.ID == match.OrganizerID {
						marker = " (organizer)"
					}
					fmt.Fprintf(app.Out, "  - %s [%s]%s\n", p.Name, p.Level, marker)
				}
			}

			printAffordances(app, match)
			return nil
		},
	}
}

// printAffordances mirrors what a UI would enable for the signed-in user.
// The checks are advisory; the server re-verifies on the mutation path.
func printAffordances(app *App, match *models.Match) {
	user := app.Session.Current()
	if user == nil {
		return
	}

	if domain.IsParticipant(user.ID, match) {
		if ok, _ := domain.CanLeave(user, match); ok {
			fmt.Fprintln(app.Out, "You are in this match. 'galera matches leave' to give up your spot.")
		} else if user.ID == match.OrganizerID {
			fmt.Fprintln(app.Out, "You organize this match.")
		} else {
			fmt.Fprintln(app.Out, "You are in this match.")
		}
		return
	}

	decision, err := domain.CanJoin(user, match)
	if err != nil {
		return
	}
	switch {
	case decision.Allowed():
		fmt.Fprintln(app.Out, "You can join this match.")
	case !decision.StatusOpen:
		fmt.Fprintln(app.Out, "This match is no longer open for joins.")
	case !decision.Eligible:
		fmt.Fprintf(app.Out, "Requires level %s or above; you are %s.\n", match.Category, user.Level)
	case !decision.HasVacancy:
		fmt.Fprintln(app.Out, "This match is full.")
	}
}

func newMatchesCreateCommand(app *App) *cobra.Command {
	var (
		title, description, kind, category, location, startsAt string
		duration, capacity                                     int
		private                                                bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a new match",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}

			starts, err := time.Parse(time.RFC3339, startsAt)
			if err != nil {
				return fmt.Errorf("invalid --starts-at (want RFC 3339, e.g. 2026-09-06T18:00:00-03:00): %w", err)
			}

			input := services.CreateMatchInput{
				Title:           title,
				Kind:            kind,
				Category:        category,
				StartsAt:        starts,
				DurationMinutes: duration,
				MaxParticipants: capacity,
			}
			if description != "" {
				input.Description = &description
			}
			if location != "" {
				input.Location = &location
			}
			if private {
				public := false
				input.Public = &public
			}

			match, err := app.API.CreateMatch(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Match #%d %q scheduled for %s.\n",
				match.ID, match.Title, match.StartsAt.Local().Format("Mon 02 Jan 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "match title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringVarP(&kind, "kind", "k", string(models.MatchKindCasual), "casual or competitive")
	cmd.Flags().StringVarP(&category, "category", "c", models.CategoryLivre, "minimum skill level, or livre")
	cmd.Flags().StringVarP(&location, "location", "l", "", "where the match happens")
	cmd.Flags().StringVar(&startsAt, "starts-at", "", "start time (RFC 3339)")
	cmd.Flags().IntVar(&duration, "duration", 90, "duration in minutes")
	cmd.Flags().IntVar(&capacity, "capacity", 12, "maximum participants, organizer included")
	cmd.Flags().BoolVar(&private, "private", false, "hide from the public list")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("starts-at")

	return cmd
}

func newMatchesJoinCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "join <id>",
		Short: "Claim a spot in a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			id, err := matchID(args[0])
			if err != nil {
				return err
			}
			match, err := app.API.JoinMatch(cmd.Context(), id)
			if err != nil {
				return joinFailure(err)
			}
			fmt.Fprintf(app.Out, "You're in! %d/%d spots taken.\n",
				domain.Occupancy(match), match.MaxParticipants)
			return nil
		},
	}
}

// joinFailure rewords the common join rejections; anything else passes
// through untouched.
func joinFailure(err error) error {
	switch {
	case errors.Is(err, domain.ErrMatchFull):
		return fmt.Errorf("no spots left, someone got there first: %w", err)
	case errors.Is(err, domain.ErrNotEligible):
		return fmt.Errorf("your level is below this match's category: %w", err)
	case errors.Is(err, domain.ErrInvalidState):
		return fmt.Errorf("this match is no longer open for joins: %w", err)
	}
	return err
}

func newMatchesLeaveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "leave <id>",
		Short: "Give up your spot in a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			id, err := matchID(args[0])
			if err != nil {
				return err
			}
			match, err := app.API.LeaveMatch(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "You left match #%d. %d spots now open.\n",
				match.ID, domain.Vacancies(match))
			return nil
		},
	}
}

func newMatchesStatusCommand(app *App) *cobra.Command {
	var (
		scoreA, scoreB int
		winnerIDs      []int
	)

	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move your match through its lifecycle (organizer only)",
		Long: `Move your match through its lifecycle (organizer only).

Valid targets depend on the current status: scheduled matches confirm,
start, or cancel; in-progress matches finish or cancel. Finishing takes
--score-a/--score-b and optionally --winner to credit wins.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			id, err := matchID(args[0])
			if err != nil {
				return err
			}

			input := services.TransitionInput{
				Status:    models.MatchStatus(args[1]),
				ScoreA:    scoreA,
				ScoreB:    scoreB,
				WinnerIDs: winnerIDs,
			}
			match, err := app.API.UpdateMatchStatus(cmd.Context(), id, input)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Match #%d is now %s.\n", match.ID, match.Status)
			if domain.ScoresMeaningful(match.Status) {
				fmt.Fprintf(app.Out, "Score: %d x %d\n", match.ScoreA, match.ScoreB)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&scoreA, "score-a", 0, "final score, side A")
	cmd.Flags().IntVar(&scoreB, "score-b", 0, "final score, side B")
	cmd.Flags().IntSliceVar(&winnerIDs, "winner", nil, "user IDs on the winning side (repeatable)")

	return cmd
}

func matchID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid match id %q", arg)
	}
	return id, nil
}
