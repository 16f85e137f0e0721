package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/roster/internal/api"
	"example.com/roster/internal/config"
	"example.com/roster/internal/domain"
	"example.com/roster/internal/events"
	"example.com/roster/internal/observability"
	"example.com/roster/internal/roster"
	httptransport "example.com/roster/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seed := roster.DefaultSeed()
	store := roster.NewStore(seed)
	for _, activity := range seed {
		observability.SetRosterSize(activity.Name, len(activity.Participants))
	}

	journal := events.NewJournal(cfg.JournalCapacity)

	var dispatcher *events.Dispatcher
	if cfg.PublishEnabled() {
		producer := events.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()

		dispatcher = events.NewDispatcher(journal, producer, cfg.RosterTopic, cfg.PublishInterval, cfg.PublishBatch)
		go dispatcher.Start(ctx)
		log.WithField("topic", cfg.RosterTopic).Info("roster change publishing enabled")
	}

	service := domain.NewService(store, journal)

	handler := api.NewHandler(service, journal, cfg.StaticDir)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Request logger with a per-request ID.
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			w.Header().Set("X-Request-Id", requestID)
			log.WithFields(log.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			}).Info("request")
			next.ServeHTTP(w, r)
		})
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, logger(mux))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.WithField("address", cfg.HTTPAddress).Info("roster service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-shutdownCh
	cancel()

	if err := httptransport.Shutdown(server, 15*time.Second); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}

	if dispatcher != nil {
		dispatcher.Wait()
	}
}
