package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long:  `Displays full details of a single task including its markdown description and comments.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Bool("no-comments", false, "do not fetch comments")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := task.ParseID(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.close() //nolint:errcheck // best-effort close on exit

	ctx := cmd.Context()
	t, err := sess.client.Get(ctx, id)
	if err != nil {
		return serviceErr(err, id)
	}

	var comments []*task.Comment
	if skip, _ := cmd.Flags().GetBool("no-comments"); !skip {
		comments, err = sess.client.Comments(ctx, id)
		if err != nil {
			return serviceErr(err, id)
		}
	}

	format := outputFormat()
	if format == output.FormatJSON {
		if comments == nil {
			comments = []*task.Comment{}
		}
		return output.JSON(os.Stdout, struct {
			*task.Task
			Comments []*task.Comment `json:"comments"`
		}{t, comments})
	}
	if format == output.FormatCompact {
		output.TaskDetailCompact(os.Stdout, t, comments)
		return nil
	}

	output.TaskDetail(os.Stdout, t, comments)
	return nil
}
