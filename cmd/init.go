package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a taskdeck config directory",
	Long:  `Creates the config directory (--dir, default ~/.config/taskdeck) with a default config.yml.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("database", "", "sqlite database path for the serve command")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	// Check if already initialized.
	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.ConfigExists, "taskdeck already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	cfg := config.NewDefault()
	cfg.SetDir(absDir)
	if flagAPIURL != "" {
		cfg.API.URL = flagAPIURL
	}
	if db, _ := cmd.Flags().GetString("database"); db != "" {
		cfg.Server.Database = db
	}

	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidConfig, err.Error())
	}

	const dirMode = 0o750
	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status": "initialized",
			"dir":    absDir,
			"config": cfg.ConfigPath(),
			"api":    cfg.API.URL,
		})
	}

	output.Messagef(os.Stdout, "Initialized taskdeck in %s", absDir)
	output.Messagef(os.Stdout, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  API:     %s", cfg.API.URL)
	output.Messagef(os.Stdout, "  Hint:    Start a local API with: taskdeck serve")
	return nil
}
