package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-claude-sessions/internal/core/model"
	"github.com/penwyp/go-claude-sessions/internal/data/aggregator"
	"github.com/penwyp/go-claude-sessions/internal/data/paths"
	"github.com/penwyp/go-claude-sessions/internal/util"
)

const defaultRecentLimit = 10

var (
	recentLimit    int
	recentProjects []string
	recentAll      bool
	recentSort     string
	recentAsc      bool
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the latest sessions across tracked projects",
	Long: `Merges the sessions of every tracked project (see "track") and shows the most
recently active ones. Projects without Claude data are skipped.`,
	Args: cobra.NoArgs,
	RunE: runRecent,
}

func init() {
	rootCmd.AddCommand(recentCmd)

	addRecentFlags(recentCmd, &recentLimit, &recentProjects, &recentAll)
	addSortFlags(recentCmd, &recentSort, &recentAsc)
}

func addRecentFlags(cmd *cobra.Command, limit *int, projects *[]string, all *bool) {
	cmd.Flags().IntVarP(limit, "limit", "n", defaultRecentLimit,
		"Maximum number of sessions to show (negative = all)")
	cmd.Flags().StringArrayVarP(projects, "project", "p", nil,
		"Additional project path to include (repeatable)")
	cmd.Flags().BoolVar(all, "all", false,
		"Include every project Claude Code knows about instead of tracked ones")
}

// recentProjectPaths collects the logical paths the recent view covers.
func recentProjectPaths(ctx context.Context, resolver *paths.Resolver, extra []string, all bool) ([]string, error) {
	var projectPaths []string

	if all {
		for _, p := range resolver.ListProjects() {
			projectPaths = append(projectPaths, p.Path)
		}
	} else {
		s, err := openStore()
		if err != nil {
			return nil, err
		}
		defer s.Close()

		tracked, err := s.Paths(ctx)
		if err != nil {
			return nil, err
		}
		projectPaths = append(projectPaths, tracked...)
	}

	seen := make(map[string]bool, len(projectPaths))
	for _, p := range projectPaths {
		seen[p] = true
	}
	for _, p := range extra {
		p = expandPath(p)
		if !seen[p] {
			seen[p] = true
			projectPaths = append(projectPaths, p)
		}
	}
	return projectPaths, nil
}

func recentSessions(ctx context.Context, limit int, extra []string, all bool) ([]model.SessionSummary, error) {
	resolver := newResolver()
	projectPaths, err := recentProjectPaths(ctx, resolver, extra, all)
	if err != nil {
		return nil, err
	}
	util.LogDebug("Collecting recent sessions", util.F("projects", len(projectPaths)), util.F("limit", limit))
	return aggregator.NewAggregator(resolver).SessionsForProjects(projectPaths, limit), nil
}

func runRecent(cmd *cobra.Command, args []string) error {
	f, err := newFormatter()
	if err != nil {
		return err
	}

	sessions, err := recentSessions(cmd.Context(), recentLimit, recentProjects, recentAll)
	if err != nil {
		return err
	}
	if err := sortSessions(sessions, recentSort, recentAsc); err != nil {
		return err
	}
	return f.FormatSessions(cmd.OutOrStdout(), sessions)
}
