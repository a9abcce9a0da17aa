package commands

import (
	"github.com/spf13/cobra"

	"github.com/penwyp/go-claude-sessions/internal/data/aggregator"
)

var messagesTail int

var messagesCmd = &cobra.Command{
	Use:   "messages <session-id>",
	Short: "Print the messages of one session in chronological order",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessages,
}

func init() {
	rootCmd.AddCommand(messagesCmd)

	messagesCmd.Flags().IntVar(&messagesTail, "tail", 0,
		"Only show the last N messages (0 = all)")
}

func runMessages(cmd *cobra.Command, args []string) error {
	f, err := newFormatter()
	if err != nil {
		return err
	}

	messages, err := aggregator.NewAggregator(newResolver()).SessionMessages(args[0])
	if err != nil {
		return err
	}
	if messagesTail > 0 && len(messages) > messagesTail {
		messages = messages[len(messages)-messagesTail:]
	}
	return f.FormatMessages(cmd.OutOrStdout(), messages)
}
