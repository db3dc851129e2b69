package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/taskdeck/internal/app"
	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Permanently deletes a task and its comments. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := task.ParseIDs(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")

	// Batch mode requires --yes.
	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq,
			"batch delete requires --yes")
	}

	var confirm app.Confirmer = app.ConfirmFunc(func(string) bool { return true })
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		confirm = &promptConfirmer{in: bufio.NewReader(os.Stdin), out: os.Stderr}
	}

	sess, err := openSession(app.WithConfirmer(confirm))
	if err != nil {
		return err
	}
	defer sess.close() //nolint:errcheck // best-effort close on exit

	if _, err := sess.fetch(cmd); err != nil {
		return err
	}

	if len(ids) == 1 {
		return deleteSingleTask(cmd, sess, confirm, ids[0])
	}

	// Batch mode (yes is guaranteed true here).
	return runBatch(ids, func(id int) error {
		_, err := executeDelete(cmd, sess, confirm, id)
		return err
	})
}

// deleteSingleTask handles a single task delete with confirmation and output.
func deleteSingleTask(cmd *cobra.Command, sess *session, confirm app.Confirmer, id int) error {
	t, err := executeDelete(cmd, sess, confirm, id)
	if err != nil {
		return err
	}
	if t == nil {
		fmt.Fprintln(os.Stderr, "Canceled.")
		return nil
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     t.ID,
			"title":  t.Title,
		})
	}

	output.Messagef(os.Stdout, "Deleted task #%d: %s", t.ID, t.Title)
	return nil
}

// executeDelete deletes one fetched task through the controller, which asks
// the confirmer first. A nil task with a nil error means the user declined.
func executeDelete(cmd *cobra.Command, sess *session, confirm app.Confirmer, id int) (*task.Task, error) {
	st := sess.ctrl.State()
	i := task.IndexByID(st.Tasks, id)
	if i < 0 {
		return nil, task.NotFound(id)
	}
	t := st.Tasks[i]

	if pc, ok := confirm.(*promptConfirmer); ok {
		pc.subject = fmt.Sprintf("task #%d %q", t.ID, t.Title)
	}

	if !sess.ctrl.DeleteTask(cmd.Context(), id) {
		if err := sess.ctrl.Cause(); err != nil {
			return nil, serviceErr(err, id)
		}
		return nil, nil
	}
	return t, nil
}

// promptConfirmer asks on the terminal. subject names what is being deleted.
type promptConfirmer struct {
	in      *bufio.Reader
	out     io.Writer
	subject string
}

// Confirm implements app.Confirmer.
func (p *promptConfirmer) Confirm(prompt string) bool {
	if p.subject != "" {
		prompt = strings.TrimSuffix(prompt, "?") + ": " + p.subject + "?"
	}
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	answer, _ := p.in.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
