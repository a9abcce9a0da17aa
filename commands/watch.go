package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-claude-sessions/internal/data/aggregator"
	"github.com/penwyp/go-claude-sessions/internal/data/paths"
	"github.com/penwyp/go-claude-sessions/internal/data/watcher"
	"github.com/penwyp/go-claude-sessions/internal/presentation/formatter"
	"github.com/penwyp/go-claude-sessions/internal/util"
)

var (
	watchLimit    int
	watchProjects []string
	watchAll      bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render recent sessions whenever a transcript changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addRecentFlags(watchCmd, &watchLimit, &watchProjects, &watchAll)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond,
		"Quiet period after a write before refreshing")
}

func renderRecent(ctx context.Context, w io.Writer, f formatter.Formatter, header string) error {
	sessions, err := recentSessions(ctx, watchLimit, watchProjects, watchAll)
	if err != nil {
		return err
	}
	if header != "" {
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
	}
	return f.FormatSessions(w, sessions)
}

func runWatch(cmd *cobra.Command, args []string) error {
	f, err := newFormatter()
	if err != nil {
		return err
	}

	projectsDir, ok := newResolver().ProjectsDir()
	if !ok {
		return fmt.Errorf("%w: %w", aggregator.ErrProjectsDirNotFound, paths.ErrHomeUnavailable)
	}
	tw, err := watcher.New(projectsDir)
	if err != nil {
		return fmt.Errorf("%w: %w", aggregator.ErrProjectsDirNotFound, err)
	}
	defer tw.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	tp := util.GetTimeProvider()
	if err := renderRecent(ctx, out, f, "Watching "+projectsDir+" (Ctrl+C to stop)"); err != nil {
		return err
	}

	watcher.Debounce(ctx, tw.Events(), watchDebounce, func(batch []watcher.Event) {
		util.LogDebug("Transcripts changed", util.F("events", len(batch)))
		header := fmt.Sprintf("\n%s · %d change(s)", tp.Format(time.Now(), "15:04:05"), len(batch))
		if err := renderRecent(ctx, out, f, header); err != nil {
			util.LogError("Refresh failed", util.F("error", err))
		}
	})
	return nil
}
