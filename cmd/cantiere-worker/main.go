package main

import (
	"context"
	"errors"
	"os"
	"time"

	"cantiere/internal/amqp"
	"cantiere/internal/backend"
	"cantiere/internal/cli"
	"cantiere/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting cantiere-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backing configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBacking(backendCfg)
	if err != nil {
		logger.Error("Failed to initialize persistence backing", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backing cleanup failed", "error", err)
			}
		}()
	}

	snapshotWorker, err := worker.NewSnapshotWorker(result.Backing, cfg.SnapshotDir)
	if err != nil {
		logger.Error("Failed to initialize snapshot worker", "error", err, "dir", cfg.SnapshotDir)
		os.Exit(1)
	}

	// A broker is optional here too: without one the worker degrades to
	// periodic full exports.
	var consumer worker.ChangeConsumer
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, relying on periodic exports only", "error", err)
		} else {
			defer amqpClient.Close()
			consumer = amqpClient
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	logger.Info("Snapshot worker running",
		"dir", cfg.SnapshotDir,
		"interval", cfg.SnapshotInterval,
		"amqp_enabled", consumer != nil)

	if err := snapshotWorker.Run(ctx, consumer, cfg.SnapshotInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Snapshot worker failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
