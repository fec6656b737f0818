// File: cmd/villas-node/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit codes per spec.md §6: 0 success, 1 configuration error, 2
// runtime error, 3 interrupted (SIGINT/SIGTERM).
const (
	exitSuccess     = 0
	exitConfigError = 1
	exitRuntime     = 2
	exitInterrupted = 3
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	version   = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "villas-node",
	Short:   "Real-time data gateway: node, path, and hook orchestration",
	Long:    `villas-node loads a JSON configuration describing nodes, paths, and hooks, and runs the resulting data pipeline until interrupted.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config.json (default: $XDG_CONFIG_HOME/villas-node/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console, json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitConfigError)
	}
}
