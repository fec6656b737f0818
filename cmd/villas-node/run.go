// File: cmd/villas-node/run.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/villasnode/node/internal/config"
	"github.com/villasnode/node/internal/logging"
	"github.com/villasnode/node/internal/metrics"
)

var httpAddr string

var runCmd = &cobra.Command{
	Use:   "run [config.json]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Run the gateway until interrupted",
	Long:  `Loads a configuration, brings every node and path up through parse/check/prepare/start, and serves /metrics until SIGINT or SIGTERM.`,
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&httpAddr, "http", ":9090", "address to serve /metrics on (empty disables it)")
}

func runRun(cmd *cobra.Command, args []string) error {
	var explicit string
	if len(args) == 1 {
		explicit = args[0]
	} else {
		explicit = cfgFile
	}

	path, err := config.ResolvePath(explicit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "villas-node: "+err.Error())
		os.Exit(exitConfigError)
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "villas-node: "+err.Error())
		os.Exit(exitConfigError)
	}

	log := logging.New(logging.Config{Level: logging.Level(logLevel), Format: logging.Format(logFormat)})
	log.Info().Str("config", path).Msg("loaded configuration")

	mcol := metrics.NewCollector()
	nodeReg, hookReg := registerBuiltins()
	sn := newSuperNode(cfg, nodeReg, hookReg, log, mcol)

	if err := sn.Parse(); err != nil {
		log.Error().Err(err).Msg("parse failed")
		os.Exit(exitConfigError)
	}
	if err := sn.Check(); err != nil {
		log.Error().Err(err).Msg("check failed")
		os.Exit(exitConfigError)
	}
	if err := sn.Prepare(); err != nil {
		log.Error().Err(err).Msg("prepare failed")
		os.Exit(exitConfigError)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sn.Start(ctx); err != nil {
		log.Error().Err(err).Msg("start failed")
		os.Exit(exitRuntime)
	}
	log.Info().Msg("gateway started")

	var srv *http.Server
	if httpAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(mcol)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: httpAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
		log.Info().Str("addr", httpAddr).Msg("serving /metrics")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("shutting down")

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}

	if err := sn.Stop(); err != nil {
		log.Error().Err(err).Msg("stop failed")
		os.Exit(exitRuntime)
	}

	os.Exit(exitInterrupted)
	return nil
}
