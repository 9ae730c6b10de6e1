package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/resflow/resflow/internal/ingest"
	"github.com/resflow/resflow/internal/natsserver"
	"github.com/resflow/resflow/pkg/mailparse"
)

var version = "dev"

func main() {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "resflowd",
		Short: "resflow daemon — reservation-email parsing relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(
				zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339},
			).With().Timestamp().Logger()

			cfg, err := ingest.LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			return run(cfg, logger)
		},
	}

	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg ingest.Config, logger zerolog.Logger) error {
	var nc *nats.Conn
	if cfg.NATS.Embedded {
		srv, err := natsserver.New(natsserver.Config{
			StoreDir: cfg.NATS.DataDir,
			Host:     cfg.NATS.Host,
			Port:     cfg.NATS.Port,
			Token:    cfg.NATS.Token,
		}, logger)
		if err != nil {
			return fmt.Errorf("start embedded nats: %w", err)
		}
		defer srv.Shutdown()
		nc = srv.Conn()
	} else {
		var opts []nats.Option
		if cfg.NATS.Token != "" {
			opts = append(opts, nats.Token(cfg.NATS.Token))
		}
		conn, err := nats.Connect(cfg.NATS.URL, opts...)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer conn.Close()
		nc = conn
	}

	relay := ingest.NewRelay(nc, mailparse.DefaultRegistry(), cfg.Relay, logger)
	if err := relay.Start(); err != nil {
		return err
	}
	defer relay.Stop()

	if cfg.Watch.Dir != "" {
		watcher := ingest.NewWatcher(cfg.Watch.Dir, relay, logger)
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer watcher.Stop()
	}

	logger.Info().Str("version", version).Msg("resflowd started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutting down")
	return nil
}
