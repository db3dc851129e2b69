package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference Task API",
	Long: `Serves the Task API backed by a local sqlite database.
The TUI and the other commands talk to it through api.url.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	serveCmd.Flags().String("database", "", "sqlite database path, or :memory: (default from server.database)")
	serveCmd.Flags().Bool("debug", false, "run gin in debug mode")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		addr = v
	}
	dbPath := cfg.DatabasePath()
	if v, _ := cmd.Flags().GetString("database"); v != "" {
		dbPath = v
	}
	if debug, _ := cmd.Flags().GetBool("debug"); !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := log.New(os.Stderr, logPrefix, log.LstdFlags)

	db, err := server.Open(dbPath)
	if err != nil {
		return err
	}
	store := server.NewStore(db)
	defer store.Close() //nolint:errcheck // best-effort close on exit

	logger.Printf("using database %s", dbPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(store, logger, cfg.Server.CORSOrigins).ListenAndServe(ctx, addr)
}
