package main

import (
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/cobra"

	"github.com/taleify/taleify/internal/server"
)

var serveSkipProbe bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Taleify HTTP server",
	Long: `Serve starts the HTTP server that exposes audiobook generation to the
admin upload surface.

Endpoints:
  GET  /health                        basic liveness
  GET  /ready                         readiness including TTS reachability
  POST /api/audiobook/generate        run one manuscript through the pipeline
  POST /api/audiobook/check-voice     resolve a narrator voice without a run

On startup the server probes the TTS provider and retries briefly before
giving up, so a transient network blip at boot does not kill the process.

Examples:
  taleify serve
  taleify serve --skip-probe
  TALEIFY_SERVER_PORT=9090 taleify serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gen, tts, err := buildGenerator(cfg, logger)
		if err != nil {
			return err
		}

		if !serveSkipProbe {
			err = retry.Do(
				func() error { return tts.HealthCheck(cmd.Context()) },
				retry.Context(cmd.Context()),
				retry.Attempts(5),
				retry.Delay(2*time.Second),
				retry.DelayType(retry.BackOffDelay),
				retry.OnRetry(func(n uint, err error) {
					logger.Warn("TTS provider not reachable, retrying", "attempt", n+1, "error", err)
				}),
			)
			if err != nil {
				return fmt.Errorf("TTS provider is not reachable: %w", err)
			}
			logger.Info("TTS provider reachable")
		}

		srv, err := server.New(server.Config{
			Host:           cfg.Server.Host,
			Port:           cfg.Server.Port,
			RequestTimeout: time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
			Generator:      gen,
			TTS:            tts,
			Logger:         logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		return srv.Start(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveSkipProbe, "skip-probe", false, "skip the startup TTS reachability probe")
	rootCmd.AddCommand(serveCmd)
}
