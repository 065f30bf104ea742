package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/somramnani/hibachi-orders/internal/config"
	"github.com/somramnani/hibachi-orders/internal/ledger"
	"github.com/somramnani/hibachi-orders/internal/logging"
	"github.com/somramnani/hibachi-orders/internal/menu"
	"github.com/somramnani/hibachi-orders/internal/metrics"
	"github.com/somramnani/hibachi-orders/internal/router"
	"github.com/somramnani/hibachi-orders/internal/service"
	"github.com/somramnani/hibachi-orders/internal/ws"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Hibachi order intake API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Port, "port", cfg.Port, "listen port (PORT)")
	f.StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", cfg.AllowedOrigins, "CORS and websocket origins (ALLOWED_ORIGINS)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (LOG_LEVEL)")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "json or console (LOG_FORMAT)")
	f.StringVar(&cfg.Ledger.WriteMode, "ledger-write-mode", cfg.Ledger.WriteMode, "append or explicit (LEDGER_WRITE_MODE)")
	f.DurationVar(&cfg.Ledger.Timeout, "ledger-timeout", cfg.Ledger.Timeout, "bound on one ledger write (LEDGER_TIMEOUT)")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	catalog, err := menu.Default()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	m := metrics.New()

	writer, err := newLedgerWriter(ctx, cfg.Ledger)
	if err != nil {
		return fmt.Errorf("configure ledger: %w", err)
	}
	recorder := ledger.NewRecorder(writer, ledger.RecorderConfig{
		Timeout:         cfg.Ledger.Timeout,
		WritesPerMinute: cfg.Ledger.WritesPerMinute,
	}, m, logger)
	logLedger(logger, cfg.Ledger, recorder)

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	svc := service.NewOrderService(catalog, recorder, hub, m, logger)
	r := router.New(cfg, router.Deps{
		Orders:  svc,
		Catalog: catalog,
		Hub:     hub,
		Metrics: m,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout(cfg.Ledger.Timeout),
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Ledger.Timeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// writeTimeout covers the slowest accepted request: the ledger attempt, which
// Record cuts off at ledgerTimeout, plus headroom for decoding and encoding.
func writeTimeout(ledgerTimeout time.Duration) time.Duration {
	if ledgerTimeout <= 0 {
		ledgerTimeout = defaultLedgerTimeout
	}
	return ledgerTimeout + 20*time.Second
}

func logLedger(logger zerolog.Logger, cfg config.LedgerConfig, rec *ledger.Recorder) {
	if !rec.Enabled() {
		logger.Warn().Msg("ledger not configured; orders will not be recorded to a spreadsheet")
		return
	}
	logger.Info().
		Str("spreadsheet", cfg.SpreadsheetID).
		Str("range", cfg.Range).
		Str("mode", cfg.WriteMode).
		Msg("ledger enabled")
}
