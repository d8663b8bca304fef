package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hunteraulo1/f95-france/internal/auth"
	"github.com/Hunteraulo1/f95-france/internal/database"
	"github.com/Hunteraulo1/f95-france/internal/jobs"
	"github.com/Hunteraulo1/f95-france/internal/router"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				a.cfg.Port = port
			}
			return serve(cmd.Context(), a)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(a.cfg, a.log)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	r, err := router.Setup(db, a.cfg, a.log)
	if err != nil {
		return fmt.Errorf("setup router: %w", err)
	}

	scheduler, err := jobs.New(db, auth.NewSessions(db, a.cfg.JWTSecret), a.cfg.LogRetentionDays, a.log)
	if err != nil {
		return fmt.Errorf("schedule jobs: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.log.Info("server exiting")
	return nil
}
