package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"poolmon/internal/chain"
	"poolmon/internal/config"
	"poolmon/internal/metrics"
	"poolmon/internal/monitor"
	"poolmon/internal/server"
	"poolmon/internal/sink"
)

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	monitorConfigs, err := cfg.MonitorConfigs()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	reader, err := chain.Dial(ctx, cfg.Network, cfg.RPCURL, cfg.ABI)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer reader.Close()

	sinks := sink.Multi{sink.NewTextSink(os.Stdout, int32(cfg.PricePrecision))}
	if cfg.Out != "" {
		sinks = append(sinks, sink.NewJSONLSink(cfg.Out))
	}
	if cfg.NATSURL != "" {
		natsSink, err := sink.NewNATSSink(cfg.NATSURL, cfg.NATSSubject, logger)
		if err != nil {
			return err
		}
		defer natsSink.Close()
		sinks = append(sinks, natsSink)
	}

	var (
		opts    []monitor.Option
		httpSrv *server.Server
	)
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)
		sinks = append(sinks, m)
		opts = append(opts, monitor.WithObserver(m))
		httpSrv = server.New(cfg.MetricsAddr, reg, logger)
	}

	monitors := make([]*monitor.Monitor, 0, len(monitorConfigs))
	for _, mc := range monitorConfigs {
		m, err := monitor.New(mc, reader, sinks, logger, opts...)
		if err != nil {
			return err
		}
		monitors = append(monitors, m)
	}

	logger.Info("poolmon start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("network", cfg.Network),
		zap.Strings("pools", cfg.Pools),
		zap.Int("interval_seconds", cfg.Interval),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.String("out", cfg.Out),
		zap.Bool("nats", cfg.NATSURL != ""),
		zap.String("metrics_addr", cfg.MetricsAddr),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return monitor.RunAll(groupCtx, monitors...)
	})
	if httpSrv != nil {
		group.Go(func() error {
			return httpSrv.Run(groupCtx)
		})
	}

	if err := group.Wait(); err != nil {
		if isShutdown(err) && ctx.Err() != nil {
			logger.Info("poolmon stop")
			return nil
		}
		logger.Error("poolmon failed", zap.Error(err))
		return err
	}
	return nil
}
