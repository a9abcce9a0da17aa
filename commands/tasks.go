package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-claude-sessions/internal/store"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks [id|project-path]",
	Short: "List tasks of tracked projects",
	Long: `Lists the tasks attached to tracked projects, newest first. With a
project id or path, only that project's tasks are shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTasks,
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <id|project-path> <content>...",
	Short: "Add a pending task to a tracked project",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTasksAdd,
}

var tasksStatusCmd = &cobra.Command{
	Use:   "status <task-id> <pending|in_progress|completed>",
	Short: "Change the status of a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runTasksStatus,
}

var tasksRemoveCmd = &cobra.Command{
	Use:     "rm <task-id>",
	Aliases: []string{"remove"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTasksRemove,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksStatusCmd)
	tasksCmd.AddCommand(tasksRemoveCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	f, err := newFormatter()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ref := ""
	if len(args) > 0 {
		ref = projectRef(cmd.Context(), s, args[0])
	}
	tasks, err := s.Tasks(cmd.Context(), ref)
	if err != nil {
		return err
	}
	return f.FormatTasks(cmd.OutOrStdout(), tasks)
}

func runTasksAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := s.AddTask(cmd.Context(), projectRef(cmd.Context(), s, args[0]), strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added task %s to %s\n", task.ID, task.ProjectName)
	return err
}

func runTasksStatus(cmd *cobra.Command, args []string) error {
	status, err := store.ParseTaskStatus(args[1])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := s.SetTaskStatus(cmd.Context(), args[0], status)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is %s\n", task.ID, task.Status)
	return err
}

func runTasksRemove(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.RemoveTask(cmd.Context(), args[0]); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", args[0])
	return err
}
