package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gravitrone/credir/internal/config"
	"github.com/gravitrone/credir/internal/listingdb"
	"github.com/gravitrone/credir/internal/logging"
	"github.com/gravitrone/credir/internal/server"
)

const shutdownGrace = 5 * time.Second

// ServeOptions configures the demo listing API.
type ServeOptions struct {
	Addr string
	DB   string
	Seed bool
}

// ServeCmd returns the `credir serve` command.
func ServeCmd() *cobra.Command {
	opts := ServeOptions{
		Addr: "127.0.0.1:8000",
		DB:   filepath.Join(config.Dir(), "listings.db"),
		Seed: true,
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo listing API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logging.Init(logging.Config{
				Level:      cfg.LogLevel,
				File:       config.LogPath(),
				MaxSizeMB:  cfg.LogMaxSizeMB,
				MaxBackups: cfg.LogMaxBackups,
				Stderr:     true,
			})
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", opts.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", opts.Addr, err)
			}
			return Serve(ctx, ln, opts, log)
		},
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", opts.Addr, "listen address")
	cmd.Flags().StringVar(&opts.DB, "db", opts.DB, "SQLite database path (\":memory:\" for a throwaway copy)")
	cmd.Flags().BoolVar(&opts.Seed, "seed", opts.Seed, "seed demo data when the database is empty")
	return cmd
}

// Serve runs the listing API on ln until ctx is cancelled.
func Serve(ctx context.Context, ln net.Listener, opts ServeOptions, log *logrus.Logger) error {
	db, err := listingdb.Open(opts.DB)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer db.Close()

	if opts.Seed {
		empty, err := db.Empty(ctx)
		if err != nil {
			_ = ln.Close()
			return err
		}
		if empty {
			log.WithField("db", opts.DB).Info("seeding demo data")
			if err := listingdb.Seed(ctx, db); err != nil {
				_ = ln.Close()
				return err
			}
		}
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Handler:           server.New(db, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", ln.Addr().String()).Info("listing api listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		log.Info("listing api shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
