package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/storefront-client/internal/activity"
	"github.com/ariefcatur/storefront-client/internal/api"
	"github.com/ariefcatur/storefront-client/internal/cart"
	"github.com/ariefcatur/storefront-client/internal/checkout"
	"github.com/ariefcatur/storefront-client/internal/config"
	"github.com/ariefcatur/storefront-client/internal/httpx"
	kafkax "github.com/ariefcatur/storefront-client/internal/kafka"
	"github.com/ariefcatur/storefront-client/internal/logx"
	"github.com/ariefcatur/storefront-client/internal/session"
	"github.com/ariefcatur/storefront-client/internal/storage"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logx.New(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("config")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Local state
	st, err := storage.Open(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("open storage")
	}

	// Remote API and stores; the client reads the token from the session
	var sess *session.Store
	client := api.New(cfg.APIBaseURL, cfg.APITimeout, func() string { return sess.Token() })
	sess = session.NewStore(client, st)
	crt := cart.NewStore(st)
	crt.Logger = log

	// Activity events, optional
	events := activity.Discard()
	var prod *kafkax.Producer
	if cfg.ActivityEnabled() {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, cfg.ActivityTopic, 1024, log)
		prod.Start(ctx)
		events = activity.NewEmitter(prod, cfg.ServiceName, log)
	} else {
		log.Info("KAFKA_BROKERS not set, activity events disabled")
	}

	router := httpx.NewRouter(log)
	h := &httpx.Storefront{
		API:     client,
		Session: sess,
		Cart:    crt,
		Checkout: &checkout.Service{
			API:     client,
			Cart:    crt,
			Session: sess,
			Events:  events,
		},
		Events:      events,
		CallTimeout: cfg.APITimeout,
	}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	go restore(ctx, log, sess, crt)

	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.HTTPAddr,
			"api":     cfg.APIBaseURL,
			"storage": cfg.StorageDriver,
		}).Info("storefront listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close() // close inbox, flush and close writer
		cancel()
		prod.WaitClosed()
	}
	cancel()
	if err := st.Close(); err != nil {
		log.WithError(err).Warn("close storage")
	}
}

// restore loads the cart, then the session. Cart routes and session-gated
// pages show the loading view until each store is restored, so a failing
// backend is retried.
func restore(ctx context.Context, log logrus.FieldLogger, sess *session.Store, crt *cart.Store) {
	for attempt := 1; ; attempt++ {
		err := crt.Restore(ctx)
		if err == nil {
			err = sess.Restore(ctx)
		}
		if err == nil {
			log.WithFields(logrus.Fields{
				"session": sess.State().String(),
				"items":   crt.ItemCount(),
			}).Info("local state restored")
			return
		}
		log.WithError(err).WithField("attempt", attempt).Warn("restore local state")
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}
