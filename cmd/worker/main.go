package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"portfolio/cmd/internal/bootstrap"
	"portfolio/config"
	"portfolio/db"
	"portfolio/eventbus"
	"portfolio/internal/logger"
	"portfolio/repositories"
)

func main() {
	config.InitApp()
	config.InitLogger(config.GetConfig().Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx); err != nil {
		logger.ErrorWithFields("failed to initialize MongoDB", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	defer db.Close(context.Background())

	busCfg := bootstrap.EventBusConfig()
	if !busCfg.Enabled() {
		logger.Log.Error("KAFKA_BOOTSTRAP_SERVERS is not set; the worker has nothing to consume")
		os.Exit(1)
	}
	for _, t := range eventbus.AllTopics {
		if err := eventbus.EnsureTopics(ctx, busCfg, t); err != nil {
			logger.WarnWithFields("failed to ensure eventbus topics", logger.Fields{"topic": t.Base(), "error": err.Error()})
		}
	}

	bus, err := eventbus.New(busCfg)
	if err != nil {
		logger.ErrorWithFields("failed to create event bus", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	defer bus.Close()

	suggester, err := bootstrap.NewSuggester(ctx)
	if err != nil {
		logger.ErrorWithFields("failed to create summarizer", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	database := db.Database()
	handler := NewImportHandler(
		repositories.NewImportJobRepository(database),
		bootstrap.NewImporter(database, suggester),
	)

	logger.InfoWithFields("starting import worker", logger.Fields{"group_id": busCfg.GroupID})
	sup := newWorkerSupervisor(bus, busCfg.GroupID, handler)
	if err := sup.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorWithFields("worker supervisor stopped", logger.Fields{"error": err.Error()})
	}
	logger.Log.Info("import worker stopped")
}
