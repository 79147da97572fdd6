package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/storefront-client/internal/activity"
	"github.com/ariefcatur/storefront-client/internal/config"
	kafkax "github.com/ariefcatur/storefront-client/internal/kafka"
	"github.com/ariefcatur/storefront-client/internal/logx"
	"github.com/ariefcatur/storefront-client/internal/postgres"
	"github.com/ariefcatur/storefront-client/internal/redisx"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logx.New(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName+"-activity")
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("config")
	}
	if !cfg.ActivityEnabled() {
		log.Fatal("KAFKA_BROKERS is required")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	j := &activity.Journal{Logger: log}

	// Redis: drop redeliveries by event id
	rdb, err := redisx.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, redelivered events are handled again")
	} else {
		defer rdb.Close()
		j.Seen = &redisx.Dedup{RDB: rdb, Group: cfg.ActivityGroup}
	}

	// Postgres: record events when a DSN is configured
	if cfg.PostgresDSN != "" {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.WithError(err).Fatal("db connect")
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.WithError(err).Fatal("db schema")
		}
		j.Store = &postgres.ActivityLog{DB: db}
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ActivityGroup, cfg.ActivityTopic, cfg.ActivityWorkers, log)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.WithFields(logrus.Fields{
			"group":   cfg.ActivityGroup,
			"topic":   cfg.ActivityTopic,
			"workers": cfg.ActivityWorkers,
			"dedup":   j.Seen != nil,
			"record":  j.Store != nil,
		}).Info("activity consumer started")
		if err := cons.Start(ctx, j.Handle); err != nil {
			log.WithError(err).Error("consumer exit")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down consumer...")
	cancel()
	<-done
}
