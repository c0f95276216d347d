package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ledgerkit/ledgerd/internal/api"
	"github.com/ledgerkit/ledgerd/internal/config"
	"github.com/ledgerkit/ledgerd/internal/journal"
	"github.com/ledgerkit/ledgerd/internal/ledger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ledger HTTP daemon",
	Long: `Start the HTTP daemon exposing the ledger engine. All state is
process memory; restarting the daemon starts from an empty ledger.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "", "Path to TOML config file")
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	jnl, err := journal.Open(cfg.Journal.DSN)
	if err != nil {
		return err
	}
	defer jnl.Close()

	engine := ledger.NewEngine(cfg.EngineConfig())
	engine.SetAuditSink(jnl)

	server := api.NewServer(engine, log)
	server.SetJournal(jnl)
	if cfg.API.Metrics {
		server.EnableMetrics()
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("ledgerd listening",
			zap.String("addr", cfg.Addr()),
			zap.Bool("metrics", cfg.API.Metrics),
			zap.String("journal_dsn", cfg.Journal.DSN))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
