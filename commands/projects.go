package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-claude-sessions/internal/data/aggregator"
	"github.com/penwyp/go-claude-sessions/internal/store"
)

var projectsTracked bool

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects Claude Code has sessions for",
	Long: `Lists every project directory under ~/.claude/projects with its number of
transcripts and the time of the latest write. With --tracked, lists the
projects registered with "track" instead.`,
	Args: cobra.NoArgs,
	RunE: runProjects,
}

var trackName string

var trackCmd = &cobra.Command{
	Use:   "track [project-path]",
	Short: "Track a project for the recent view",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTrack,
}

var untrackCmd = &cobra.Command{
	Use:   "untrack <id|project-path>",
	Short: "Stop tracking a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runUntrack,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(untrackCmd)

	projectsCmd.Flags().BoolVar(&projectsTracked, "tracked", false,
		"List tracked projects")
	trackCmd.Flags().StringVar(&trackName, "name", "",
		"Display name (default: last path segment)")
}

func runProjects(cmd *cobra.Command, args []string) error {
	f, err := newFormatter()
	if err != nil {
		return err
	}

	if projectsTracked {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		projects, err := s.List(cmd.Context())
		if err != nil {
			return err
		}
		return f.FormatTracked(cmd.OutOrStdout(), projects)
	}

	return f.FormatProjects(cmd.OutOrStdout(), aggregator.NewAggregator(newResolver()).Projects())
}

func runTrack(cmd *cobra.Command, args []string) error {
	projectPath, err := projectPathArg(args)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.Add(cmd.Context(), projectPath)
	if err != nil {
		return err
	}
	if trackName != "" {
		if p, err = s.Rename(cmd.Context(), p.ID, trackName); err != nil {
			return err
		}
	}

	if _, ok := newResolver().FindProjectDir(projectPath); !ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: Claude Code has no sessions for %s yet\n", projectPath)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Tracking %s (%s) as %s\n", p.Name, p.Path, p.ID)
	return err
}

func runUntrack(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Remove(cmd.Context(), projectRef(cmd.Context(), s, args[0])); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Stopped tracking %s\n", args[0])
	return err
}

// projectRef maps a tracked project id or path argument to the form stored.
// Relative and ~ paths are expanded when the literal argument is not tracked.
func projectRef(ctx context.Context, s *store.Store, ref string) string {
	if _, err := s.Get(ctx, ref); err == nil {
		return ref
	}
	if expanded := expandPath(ref); expanded != ref {
		if _, err := s.Get(ctx, expanded); err == nil {
			return expanded
		}
	}
	return ref
}
