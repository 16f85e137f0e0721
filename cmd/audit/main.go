package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"

	"example.com/roster/internal/audit"
	"example.com/roster/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if !cfg.PublishEnabled() {
		log.Fatal("KAFKA_BROKERS must be set for the audit consumer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := audit.NewLogHandler(nil)

	metricsSrv := &http.Server{Addr: cfg.MetricsAddress, Handler: promhttp.Handler()}

	go func() {
		log.WithField("address", cfg.MetricsAddress).Info("audit metrics listening")
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics server error")
		}
	}()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         cfg.KafkaBrokers,
		GroupID:         cfg.AuditGroupID,
		Topic:           cfg.RosterTopic,
		MinBytes:        1e3,
		MaxBytes:        10e6,
		CommitInterval:  time.Second,
		RetentionTime:   24 * time.Hour,
		ReadLagInterval: -1,
	})

	proc := audit.NewProcessor(reader, handler)

	var wg sync.WaitGroup
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer reader.Close()

		log.WithFields(log.Fields{
			"topic": cfg.RosterTopic,
			"group": cfg.AuditGroupID,
		}).Info("audit consumer started")
		if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("audit consumer stopped with error")
		}
	}()

	<-stop
	log.Info("audit consumer shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("metrics server shutdown error")
	}

	wg.Wait()
}
