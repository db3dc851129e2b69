package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
	corsMaxAge      = 12 * time.Hour
)

// Server is the reference Task API.
type Server struct {
	store  *Store
	logger *log.Logger
	router *gin.Engine
}

// New builds the router. A nil logger discards output; empty corsOrigins
// allows any origin.
func New(store *Store, logger *log.Logger, corsOrigins []string) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	s := &Server{store: store, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithWriter(logger.Writer()))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  corsOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        corsMaxAge,
	}))

	r.GET("/health", s.health)

	api := r.Group("/api")
	tasks := api.Group("/tasks")
	tasks.GET("", s.listTasks)
	tasks.POST("", s.createTask)
	tasks.GET("/:id", s.getTask)
	tasks.PUT("/:id", s.updateTask)
	tasks.DELETE("/:id", s.deleteTask)

	tasks.GET("/:id/comments", s.listComments)
	tasks.POST("/:id/comments", s.createComment)
	tasks.GET("/:id/comments/:cid", s.getComment)
	tasks.PUT("/:id/comments/:cid", s.updateComment)
	tasks.DELETE("/:id/comments/:cid", s.deleteComment)

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Task API listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Printf("Task API stopped")
	return nil
}
