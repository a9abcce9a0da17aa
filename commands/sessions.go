package commands

import (
	"github.com/spf13/cobra"

	"github.com/penwyp/go-claude-sessions/internal/core/model"
	"github.com/penwyp/go-claude-sessions/internal/data/aggregator"
	"github.com/penwyp/go-claude-sessions/internal/presentation/interaction"
)

var (
	sessionsLimit int
	sessionsSort  string
	sessionsAsc   bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [project-path]",
	Short: "List the sessions of one project",
	Long: `Lists every Claude Code session recorded for a project, most recently active first.
The project defaults to the current working directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 0,
		"Maximum number of sessions to show (0 = all)")
	addSortFlags(sessionsCmd, &sessionsSort, &sessionsAsc)
}

func addSortFlags(cmd *cobra.Command, field *string, asc *bool) {
	cmd.Flags().StringVar(field, "sort", "recent",
		"Sort by recent, started, tokens or messages")
	cmd.Flags().BoolVar(asc, "asc", false,
		"Sort ascending instead of descending")
}

// sortSessions applies --sort/--asc. The default leaves the recency order untouched.
func sortSessions(sessions []model.SessionSummary, field string, asc bool) error {
	sortField, err := interaction.ParseSortField(field)
	if err != nil {
		return err
	}
	order := interaction.SortDescending
	if asc {
		order = interaction.SortAscending
	}
	if sortField == interaction.SortByRecent && order == interaction.SortDescending {
		return nil
	}
	interaction.NewSessionSorter(sortField, order).Sort(sessions)
	return nil
}

func runSessions(cmd *cobra.Command, args []string) error {
	f, err := newFormatter()
	if err != nil {
		return err
	}
	projectPath, err := projectPathArg(args)
	if err != nil {
		return err
	}

	sessions, err := aggregator.NewAggregator(newResolver()).ProjectSessions(projectPath)
	if err != nil {
		return err
	}
	if sessionsLimit > 0 && len(sessions) > sessionsLimit {
		sessions = sessions[:sessionsLimit]
	}
	if err := sortSessions(sessions, sessionsSort, sessionsAsc); err != nil {
		return err
	}

	return f.FormatSessions(cmd.OutOrStdout(), sessions)
}
