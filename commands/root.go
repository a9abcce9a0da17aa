package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-claude-sessions/internal/config"
	"github.com/penwyp/go-claude-sessions/internal/data/paths"
	"github.com/penwyp/go-claude-sessions/internal/presentation/formatter"
	"github.com/penwyp/go-claude-sessions/internal/store"
	"github.com/penwyp/go-claude-sessions/internal/util"
)

var (
	// Logging related
	debug bool

	// Locations
	homeDir    string
	dataDir    string
	configPath string

	// Output related
	outputFormat string
	timezone     string

	rootCmd = &cobra.Command{
		Use:   "go-claude-sessions",
		Short: "Browse Claude Code sessions and usage statistics",
		Long: `go-claude-sessions reads the conversation logs and usage statistics that Claude Code
keeps under ~/.claude and turns them into session lists, transcripts and reports.
It never writes to Claude Code's files.

Examples:
  go-claude-sessions sessions                       # Sessions of the current directory's project
  go-claude-sessions sessions ~/src/api --sort tokens
  go-claude-sessions track ~/src/api                # Track a project
  go-claude-sessions recent --limit 20              # Latest sessions across tracked projects
  go-claude-sessions messages <session-id>          # Full transcript of one session
  go-claude-sessions stats -o json                  # Usage statistics as JSON
  go-claude-sessions watch                          # Refresh recent sessions as Claude writes`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			util.CloseLogger()
		},
	}
)

const defaultDataDir = "~/" + config.DataDirName

func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "",
		"Home directory containing .claude (default: current user's home)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir,
		"Directory for preferences, logs and the tracked-projects database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Preferences file (default: <data-dir>/config.json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatter.FormatTable,
		"Output format (table, json, csv)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for displayed times (e.g., Asia/Shanghai, UTC)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func setup(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	if homeDir != "" {
		homeDir = expandPath(homeDir)
		if !cmd.Flags().Changed("data-dir") {
			dataDir = config.DefaultDataDir(homeDir)
		}
	}
	dataDir = expandPath(dataDir)
	if configPath == "" {
		configPath = config.FilePath(dataDir)
	} else {
		configPath = expandPath(configPath)
	}

	logFile := config.LogPath(dataDir)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		logFile = ""
	}
	if err := util.InitLogger(logLevel, logFile, debug); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
	}

	if err := util.InitializeTimeProvider(timezone); err != nil {
		return err
	}

	util.LogDebug("Command started", util.F("command", cmd.CommandPath()),
		util.F("home", homeDir), util.F("data_dir", dataDir))
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

// newResolver honours --home, falling back to the current user's home.
func newResolver() *paths.Resolver {
	if homeDir != "" {
		return paths.NewResolver(homeDir)
	}
	return paths.NewDefaultResolver()
}

func newFormatter() (formatter.Formatter, error) {
	return formatter.NewFormatter(outputFormat)
}

func openStore() (*store.Store, error) {
	return store.Open(config.DatabasePath(dataDir))
}

// projectPathArg resolves an optional path argument to an absolute logical
// path, defaulting to the working directory.
func projectPathArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return expandPath(args[0]), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
