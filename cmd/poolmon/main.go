package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"poolmon/internal/chain"
)

func main() {
	root := &cobra.Command{
		Use:          "poolmon",
		Short:        "AMM pool price monitor",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Poll pools and report balances, k and spot prices",
		RunE:  runMonitor,
	}

	runCmd.Flags().String("rpc", "", "node RPC URL")
	runCmd.Flags().String("network", chain.NetworkStarknet, "network type (starknet, evm)")
	runCmd.Flags().StringSlice("pool", nil, "pool addresses (comma-separated)")
	runCmd.Flags().Int("interval", 1, "polling interval in seconds")
	runCmd.Flags().Int("max-retries", 0, "retry attempts per RPC call")
	runCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	runCmd.Flags().Int("price-precision", 18, "decimal places for prices")
	runCmd.Flags().String("out", "", "optional JSONL report file")
	runCmd.Flags().String("nats-url", "", "optional NATS server URL")
	runCmd.Flags().String("nats-subject", "poolmon.prices", "NATS subject for reports")
	runCmd.Flags().String("metrics-addr", "", "listen address for /metrics and /healthz")
	runCmd.Flags().String("abi", "", "pool ABI JSON file (evm network)")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	selectorCmd := &cobra.Command{
		Use:   "selector <entry-point>...",
		Short: "Print Starknet entry point selectors",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSelector,
	}

	root.AddCommand(selectorCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSelector(cmd *cobra.Command, args []string) error {
	for _, name := range args {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, chain.SelectorHex(name)); err != nil {
			return err
		}
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// Reports own stdout.
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}
