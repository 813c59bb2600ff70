package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/assignment"
	"github.com/tonyorjime-cloud/WorNest/internal/leave"
	"github.com/tonyorjime-cloud/WorNest/internal/messaging/kafka"
	"github.com/tonyorjime-cloud/WorNest/internal/messaging/kafka/producer"
	"github.com/tonyorjime-cloud/WorNest/internal/reminder"
	"github.com/tonyorjime-cloud/WorNest/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker hosts the background side of the system: the outbox
// producer draining events to kafka and the reminder sweeper.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	assignmentRepo := assignment.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	dispatchRepo := reminder.NewDispatchRepository(gormDB)

	sweeper := reminder.NewSweeper(
		dispatchRepo,
		assignmentRepo,
		leaveRepo,
		outboxRepo,
		sweepInterval(),
		leadWindowDays(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)
	go sweeper.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func sweepInterval() time.Duration {
	if raw := os.Getenv("REMINDER_SWEEP_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return time.Hour
}

func leadWindowDays() int {
	if raw := os.Getenv("REMINDER_LEAD_DAYS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			return n
		}
	}
	return reminder.DefaultLeadWindowDays
}
