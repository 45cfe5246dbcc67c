package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/broker-engine/internal/cache"
	"github.com/iwvelando/broker-engine/internal/engine"
	"github.com/iwvelando/broker-engine/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if address != "" {
				a.conf.Server.Address = address
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}

func (a *app) openCache(ctx context.Context) (cache.Cache, error) {
	cfg := a.conf.Cache
	switch {
	case !cfg.Enabled:
		return cache.Nop{}, nil
	case cfg.RedisURL != "":
		c, err := cache.NewRedis(ctx, cfg.RedisURL, cache.WithTTL(cfg.TTL))
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return cache.NewMemory(cfg.TTL), nil
	}
}

func (a *app) serve(ctx context.Context) error {
	logger := a.logger

	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	var quotes server.QuoteReader
	var journal engine.Journal
	if s != nil {
		defer s.Close()
		quotes = s
		journal = s
	}

	c, err := a.openCache(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	handler := server.NewHandler(server.Options{
		Logger:          logger,
		Engine:          engine.New(logger, a.rates(), journal),
		Quotes:          quotes,
		Cache:           c,
		MaxBodyBytes:    a.conf.Server.MaxBodyBytes,
		RateLimit:       a.conf.Server.RateLimit,
		RateLimitWindow: a.conf.Server.RateLimitWindow,
		Version:         a.version,
	})
	defer handler.Close()

	srv := &http.Server{
		Addr:         a.conf.Server.Address,
		Handler:      handler,
		ReadTimeout:  a.conf.Server.ReadTimeout,
		WriteTimeout: a.conf.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("op", "cmd.serve"),
			zap.String("address", srv.Addr),
			zap.Bool("journal", s != nil),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server", zap.String("op", "cmd.serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
