package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/cometbft/cometbft/abci/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"onchaindice/internal/app"
	"onchaindice/internal/config"
	"onchaindice/internal/metrics"
	"onchaindice/internal/state"
)

func startCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the ABCI server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, logger)
		},
	}
	cmd.Flags().String("addr", "tcp://127.0.0.1:26658", "ABCI listen address")
	cmd.Flags().String("transport", "socket", "ABCI transport (socket|grpc)")
	cmd.Flags().String("db_backend", "goleveldb", "state database backend (goleveldb|memdb)")
	cmd.Flags().String("metrics_addr", "127.0.0.1:26660", "Prometheus /metrics and /healthz address; empty disables")
	cmd.Flags().Bool("faucet", false, "accept unsigned bank/mint (devnets only)")
	return cmd
}

func newLogger(w io.Writer, cfg config.Config) (log.Logger, error) {
	var opts []log.Option
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		opts = append(opts, log.LevelOption(lvl))
	} else {
		// Not a plain level; try a per-module filter.
		filter, err := log.ParseLogLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
		}
		opts = append(opts, log.FilterOption(filter))
	}
	if cfg.LogFormat == config.LogFormatJSON {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...), nil
}

func run(ctx context.Context, cfg config.Config, logger log.Logger) error {
	store, err := state.OpenStore(cfg.DBBackend, cfg.DataDir())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := app.New(cfg.Home,
		app.WithStore(store),
		app.WithLogger(logger),
		app.WithMetrics(metrics.New(reg)),
		app.WithFaucet(cfg.Faucet),
	)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("init app: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("close store", "err", err)
		}
	}()

	var metricsErr <-chan error
	if cfg.MetricsAddr != "" {
		srv, errCh := metrics.StartServer(cfg.MetricsAddr, reg, a.Healthy)
		metricsErr = errCh
		logger.Info("metrics listening", "addr", cfg.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	srv, err := server.NewServer(cfg.ABCIAddr, cfg.ABCITransport, a)
	if err != nil {
		return fmt.Errorf("create abci server: %w", err)
	}
	if err := srv.Start(); err != nil {
		return fmt.Errorf("abci server start: %w", err)
	}
	defer func() { _ = srv.Stop() }()
	logger.Info("abci listening", "addr", cfg.ABCIAddr, "transport", cfg.ABCITransport, "home", cfg.Home, "faucet", cfg.Faucet)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err, ok := <-metricsErr:
		if !ok {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
