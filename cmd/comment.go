package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/activity"
	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

var commentCmd = &cobra.Command{
	Use:   "comment ID TEXT",
	Short: "Add a comment to a task",
	Args:  cobra.ExactArgs(2), //nolint:mnd // id and text
	RunE:  runComment,
}

func init() {
	rootCmd.AddCommand(commentCmd)
}

func runComment(cmd *cobra.Command, args []string) error {
	id, err := task.ParseID(args[0])
	if err != nil {
		return err
	}
	content := strings.TrimSpace(args[1])
	if content == "" {
		return clierr.New(clierr.InvalidInput, "comment text is required")
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.close() //nolint:errcheck // best-effort close on exit

	c, err := sess.client.AddComment(cmd.Context(), id, content)
	if err != nil {
		return serviceErr(err, id)
	}
	sess.recorder.Record(activity.ActionComment, id, content)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, c)
	}
	output.CommentDetail(os.Stdout, c)
	return nil
}
