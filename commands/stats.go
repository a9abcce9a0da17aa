package commands

import (
	"github.com/spf13/cobra"

	"github.com/penwyp/go-claude-sessions/internal/config"
	"github.com/penwyp/go-claude-sessions/internal/data/stats"
	"github.com/penwyp/go-claude-sessions/internal/presentation/formatter"
)

var statsDailyLimit uint32

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics from Claude Code's stats cache",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Uint32Var(&statsDailyLimit, "daily-limit", 0,
		"Daily token limit for today's usage bar (default: daily_token_limit preference)")
}

func runStats(cmd *cobra.Command, args []string) error {
	f, err := newFormatter()
	if err != nil {
		return err
	}

	limit := statsDailyLimit
	if !cmd.Flags().Changed("daily-limit") {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		limit = cfg.DailyTokenLimit
	}

	s, err := stats.NewLoader(newResolver()).Load()
	if err != nil {
		return err
	}
	return f.FormatStats(cmd.OutOrStdout(), formatter.NewStatsReport(s, limit))
}
