package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID[,ID,...]",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields are changed.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("description", "", "new description (replaces the existing one)")
	editCmd.Flags().String("status", "", "new status")
	editCmd.Flags().Bool("next", false, "advance the status (pending -> in_progress -> completed)")
	rootCmd.AddCommand(editCmd)
}

// editChanges holds the flags given to edit. Nil fields are left unchanged.
type editChanges struct {
	title       *string
	description *string
	status      *task.Status
	next        bool
}

func (c editChanges) empty() bool {
	return c.title == nil && c.description == nil && c.status == nil && !c.next
}

// apply returns the payload for t with the changes merged in.
func (c editChanges) apply(t *task.Task) task.Payload {
	p := task.PayloadOf(t)
	if c.title != nil {
		p.Title = *c.title
	}
	if c.description != nil {
		p.Description = *c.description
	}
	switch {
	case c.status != nil:
		p.Status = *c.status
	case c.next:
		p.Status = p.Status.Next()
	}
	return task.NewPayload(p.Title, p.Description, p.Status)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ids, err := task.ParseIDs(args[0])
	if err != nil {
		return err
	}

	changes, err := readEditFlags(cmd)
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.close() //nolint:errcheck // best-effort close on exit

	if _, err := sess.fetch(cmd); err != nil {
		return err
	}

	// Single ID: full output.
	if len(ids) == 1 {
		t, err := executeEdit(cmd, sess, ids[0], changes)
		if err != nil {
			return err
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, t)
		}
		output.Messagef(os.Stdout, "Updated task #%d: %s", t.ID, t.Title)
		return nil
	}

	// Batch mode.
	return runBatch(ids, func(id int) error {
		_, err := executeEdit(cmd, sess, id, changes)
		return err
	})
}

func readEditFlags(cmd *cobra.Command) (editChanges, error) {
	var c editChanges
	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		if err := task.ValidateTitle(v); err != nil {
			return c, err
		}
		c.title = &v
	}
	if cmd.Flags().Changed("description") {
		v, _ := cmd.Flags().GetString("description")
		c.description = &v
	}
	if cmd.Flags().Changed("status") {
		v, _ := cmd.Flags().GetString("status")
		if err := task.ValidateStatus(v); err != nil {
			return c, err
		}
		st := task.Status(v)
		c.status = &st
	}
	c.next, _ = cmd.Flags().GetBool("next")
	if c.status != nil && c.next {
		return c, clierr.New(clierr.InvalidInput, "--status and --next are mutually exclusive")
	}
	if c.empty() {
		return c, clierr.New(clierr.NoChanges, "no changes specified")
	}
	return c, nil
}

// executeEdit loads the task into the controller's edit slot, merges the
// changes and submits the update. The collection must already be fetched.
func executeEdit(cmd *cobra.Command, sess *session, id int, changes editChanges) (*task.Task, error) {
	st := sess.ctrl.State()
	i := task.IndexByID(st.Tasks, id)
	if i < 0 {
		return nil, task.NotFound(id)
	}

	current := st.Tasks[i]
	sess.ctrl.BeginEdit(current)
	p := changes.apply(current)
	if p == task.PayloadOf(current) {
		sess.ctrl.CancelEdit()
		return nil, clierr.Newf(clierr.NoChanges, "task #%d already has the requested values", id).
			WithDetails(map[string]any{"id": id})
	}

	if !sess.ctrl.UpdateTask(cmd.Context(), id, p) {
		sess.ctrl.CancelEdit()
		return nil, serviceErr(sess.ctrl.Cause(), id)
	}

	st = sess.ctrl.State()
	return st.Tasks[task.IndexByID(st.Tasks, id)], nil
}
