package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create [TITLE]",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Creates a new task with the given title and optional fields.

Title can be provided as a positional argument or via --title flag.
Description can be provided via --description (or --body).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("title", "", "task title (alternative to positional argument)")
	createCmd.Flags().String("description", "", "task description (markdown)")
	createCmd.Flags().String("status", string(task.DefaultStatus), "task status")
	createCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "body" {
			name = "description"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	title, err := resolveCreateTitle(cmd, args)
	if err != nil {
		return err
	}
	description, _ := cmd.Flags().GetString("description")
	status, _ := cmd.Flags().GetString("status")

	p := task.NewPayload(title, description, task.Status(status))
	if err := p.Validate(); err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.close() //nolint:errcheck // best-effort close on exit

	if !sess.ctrl.CreateTask(cmd.Context(), p) {
		return serviceErr(sess.ctrl.Cause(), 0)
	}
	tasks := sess.ctrl.State().Tasks
	return outputCreateResult(tasks[len(tasks)-1])
}

func outputCreateResult(t *task.Task) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Created task #%d: %s", t.ID, t.Title)
	output.Messagef(os.Stdout, "  Status: %s", t.Status.Label())
	return nil
}

// resolveCreateTitle picks the title from the positional argument or --title,
// but not both. A blank title is left for Payload.Validate to reject.
func resolveCreateTitle(cmd *cobra.Command, args []string) (string, error) {
	fromFlag, _ := cmd.Flags().GetString("title")
	if len(args) == 0 {
		return fromFlag, nil
	}
	if cmd.Flags().Changed("title") {
		return "", clierr.New(clierr.InvalidInput,
			"title given both as an argument and with --title; pass only one")
	}
	return args[0], nil
}
