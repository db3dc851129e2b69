package cmd

import (
	"context"
	"io"
	"log"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/activity"
	"github.com/twiced-technology-gmbh/taskdeck/internal/app"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/tui"
	"github.com/twiced-technology-gmbh/taskdeck/internal/watcher"
)

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Diagnostics must never reach the alt screen.
	logger := log.Default()
	if path := cfg.LogPath(); path != "" {
		f, err := tea.LogToFile(path, logPrefix)
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		logger = log.New(io.Discard, "", 0)
	}

	client := newClient(cfg, logger)
	opts := []app.Option{app.WithLogger(logger)}

	var actLog *activity.Log
	if cfg.Log.Activity {
		actLog = activity.New(cfg.Dir())
		opts = append(opts, app.WithRecorder(actLog))
	}

	model := tui.NewApp(app.New(client, opts...), cfg)
	defer model.Close()
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if actLog != nil {
		go startTUIWatcher(ctx, cfg, actLog, p, logger)
	}

	_, err = p.Run()
	return err
}

// startTUIWatcher refetches when another taskdeck process records a
// mutation in the shared activity log.
func startTUIWatcher(ctx context.Context, cfg *config.Config, actLog *activity.Log, p *tea.Program, logger *log.Logger) {
	reload := func() {
		if actLog.ExternalChange() {
			p.Send(tui.ReloadMsg{})
		}
	}
	w, err := watcher.New([]string{cfg.Dir()}, reload, watcher.WithNames(filepath.Base(actLog.Path())))
	if err != nil {
		logger.Printf("watcher disabled: %v", err)
		return // non-fatal: TUI works without live refresh
	}
	defer w.Close()
	w.Run(ctx, func(err error) { logger.Printf("watcher: %v", err) })
}
