package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Lists tasks with optional filtering, sorting, and output format control.`,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringSlice("status", nil, "filter by status (comma-separated)")
	listCmd.Flags().StringP("search", "s", "", "search tasks by title or description (case-insensitive)")
	listCmd.Flags().String("sort", "", "sort field ("+strings.Join(task.ValidSortFields(), ", ")+"; default server order)")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	statuses, _ := cmd.Flags().GetStringSlice("status")
	search, _ := cmd.Flags().GetString("search")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")

	for _, s := range statuses {
		if err := task.ValidateStatus(s); err != nil {
			return err
		}
	}
	if sortBy != "" && !slices.Contains(task.ValidSortFields(), sortBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(task.ValidSortFields(), ", "))
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.close() //nolint:errcheck // best-effort close on exit

	tasks, err := sess.fetch(cmd)
	if err != nil {
		return err
	}

	tasks = task.Filter(tasks, task.FilterOptions{Statuses: statuses, Search: search})
	if sortBy != "" {
		task.Sort(tasks, sortBy, reverse)
	} else if reverse {
		slices.Reverse(tasks)
	}
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return outputTaskList(tasks, sess.cfg.DateFormat())
}

func outputTaskList(tasks []*task.Task, dateFormat string) error {
	format := outputFormat()
	if format == output.FormatJSON {
		if tasks == nil {
			tasks = []*task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}

	output.TaskTable(os.Stdout, tasks, dateFormat)
	return nil
}
