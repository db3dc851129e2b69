// Package cmd implements the taskdeck CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/activity"
	"github.com/twiced-technology-gmbh/taskdeck/internal/app"
	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/service"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

const logPrefix = "taskdeck "

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
	flagAPIURL  string
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "Terminal client for the Task API",
	Long: `taskdeck manages tasks stored behind the Task API.
Run taskdeck with no arguments to open the TUI, or use the subcommands for scripting.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the taskdeck config directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Task API base URL (overrides config and TASKDECK_API_URL)")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// SilentError: the command already reported its outcome.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	// Determine if JSON mode is active.
	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv(output.EnvVar) == "json"
	}

	cliErr := clierr.As(err)
	if jsonMode {
		output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
		os.Exit(cliErr.ExitCode())
	}

	// Non-JSON mode: print to stderr. Unclassified errors exit 1.
	fmt.Fprintln(os.Stderr, err)
	var typed *clierr.Error
	if errors.As(err, &typed) {
		os.Exit(typed.ExitCode())
	}
	os.Exit(clierr.ExitFailure)
}

// defaultHomeDir returns the path to ~/.config/taskdeck.
func defaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", config.DefaultDirName), nil
}

// resolveDir returns the config directory: --dir, else ~/.config/taskdeck.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	return defaultHomeDir()
}

// loadConfig finds and loads the config, applying --api-url.
// If the resolved directory is ~/.config/taskdeck and it doesn't exist yet,
// it is auto-created with defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}
	if flagAPIURL != "" {
		cfg.API.URL = flagAPIURL
		if err := cfg.Validate(); err != nil {
			return nil, clierr.New(clierr.InvalidConfig, err.Error())
		}
	}
	return cfg, nil
}

func readConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}

	switch {
	case errors.Is(err, config.ErrInvalid):
		return nil, clierr.New(clierr.InvalidConfig, err.Error())
	case !errors.Is(err, config.ErrNotFound):
		return nil, err
	}

	// Auto-create ~/.config/taskdeck if it's the home default and doesn't exist.
	homeDir, homeErr := defaultHomeDir()
	if homeErr != nil || dir != homeDir {
		return nil, clierr.New(clierr.ConfigNotFound, err.Error()).
			WithDetails(map[string]any{"dir": dir})
	}

	cfg, err = config.Init(homeDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// openLog opens the diagnostic log for appending. With logging disabled the
// logger discards and the returned closer is a no-op.
func openLog(cfg *config.Config) (*log.Logger, func() error, error) {
	path := cfg.LogPath()
	if path == "" {
		return log.New(io.Discard, "", 0), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec,mnd // path from trusted config
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return log.New(f, logPrefix, log.LstdFlags), f.Close, nil
}

// newRecorder returns the activity log when enabled.
func newRecorder(cfg *config.Config) activity.Recorder {
	if !cfg.Log.Activity {
		return activity.Nop{}
	}
	return activity.New(cfg.Dir())
}

// newClient builds the Task API client from config.
func newClient(cfg *config.Config, logger *log.Logger) *service.Client {
	return service.NewClient(cfg.API.URL,
		service.WithTimeout(cfg.APITimeoutDuration()),
		service.WithLogger(logger))
}

// session bundles what the task commands share.
type session struct {
	cfg      *config.Config
	client   *service.Client
	ctrl     *app.Controller
	recorder activity.Recorder
	close    func() error
}

// openSession loads config and wires the client, logger, activity log and
// controller. Callers must call close.
func openSession(opts ...app.Option) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := openLog(cfg)
	if err != nil {
		return nil, err
	}

	client := newClient(cfg, logger)
	rec := newRecorder(cfg)
	opts = append([]app.Option{app.WithLogger(logger), app.WithRecorder(rec)}, opts...)

	return &session{
		cfg:      cfg,
		client:   client,
		ctrl:     app.New(client, opts...),
		recorder: rec,
		close:    closeLog,
	}, nil
}

// fetch loads the task list into the controller.
func (s *session) fetch(cmd *cobra.Command) ([]*task.Task, error) {
	if !s.ctrl.FetchTasks(cmd.Context()) {
		return nil, serviceErr(s.ctrl.Cause(), 0)
	}
	return s.ctrl.State().Tasks, nil
}

// find fetches the list and returns the task with the given ID.
func (s *session) find(cmd *cobra.Command, id int) (*task.Task, error) {
	tasks, err := s.fetch(cmd)
	if err != nil {
		return nil, err
	}
	i := task.IndexByID(tasks, id)
	if i < 0 {
		return nil, task.NotFound(id)
	}
	return tasks[i], nil
}

// serviceErr converts a Task API failure into a CLI error. id names the task
// the call addressed, or 0 when none.
func serviceErr(err error, id int) error {
	if err == nil {
		return nil
	}
	if id > 0 && service.IsNotFound(err) {
		return task.NotFound(id)
	}

	var se *service.Error
	if !errors.As(err, &se) {
		return err
	}
	details := map[string]any{"method": se.Method, "path": se.Path}
	if se.StatusCode != 0 {
		details["status"] = se.StatusCode
	}
	if se.RequestID != "" {
		details["request_id"] = se.RequestID
	}
	if se.StatusCode == http.StatusBadRequest && se.Message != "" {
		return clierr.New(clierr.InvalidInput, se.Message).WithDetails(details)
	}
	return clierr.New(clierr.ServiceError, se.Error()).WithDetails(details)
}

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(ids []int, fn func(int) error) error {
	results := make([]output.BatchResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		if err := fn(id); err != nil {
			anyFailed = true
			cliErr := clierr.As(err)
			results = append(results, output.BatchResult{ID: id, OK: false, Error: cliErr.Message, Code: cliErr.Code})
			continue
		}
		results = append(results, output.BatchResult{ID: id, OK: true})
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: task #%d: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(ids))
	}

	if anyFailed {
		return &clierr.SilentError{Code: clierr.ExitFailure}
	}
	return nil
}
