package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-claude-sessions/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show preferences",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one preference",
	Long:  "Change one preference. Keys: " + strings.Join(config.Keys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the preferences file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), configPath)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	f, err := newFormatter()
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	return f.FormatConfig(cmd.OutOrStdout(), *cfg)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	f, err := newFormatter()
	if err != nil {
		return err
	}
	cfg, err := config.Set(configPath, args[0], args[1])
	if err != nil {
		return err
	}
	return f.FormatConfig(cmd.OutOrStdout(), *cfg)
}
