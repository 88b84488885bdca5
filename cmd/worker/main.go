// Command worker runs the background processes spec.md §4.5/§4.12 require
// outside the request/response cycle: the outbox dispatcher, the
// notification fan-out, and the retention/order sweepers.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coziyoo/backend/internal/adapters/dispatch"
	"github.com/coziyoo/backend/internal/adapters/postgres"
	"github.com/coziyoo/backend/internal/adapters/rabbitmq"
	"github.com/coziyoo/backend/internal/adapters/redisstore"
	"github.com/coziyoo/backend/internal/config"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/internal/services/notificationsvc"
	"github.com/coziyoo/backend/internal/services/ordersvc"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
	"github.com/coziyoo/backend/internal/services/retentionsvc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.EnvName != "production")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn := postgres.Connect(ctx, cfg.DatabaseURL, int32(cfg.DatabasePoolMax))
	defer conn.Close()

	redis := redisstore.Connect(ctx, cfg.RedisURL, "", 0)
	defer redis.Close()

	var producer *rabbitmq.Producer
	if cfg.RabbitMQURL != "" {
		producer = rabbitmq.Connect(cfg.RabbitMQURL)
		defer producer.Close()
	}

	notifier := dispatch.New(cfg.AgentRuntimeBaseURL, cfg.AgentRuntimeSharedSecret)

	foods := postgres.NewFoodRepository(conn)
	lots := postgres.NewLotRepository(conn)
	orders := postgres.NewOrderRepository(conn)
	disclosures := postgres.NewDisclosureRepository(conn)
	delivery := postgres.NewDeliveryRepository(conn)
	finance := postgres.NewFinanceRepository(conn)
	outboxRepo := postgres.NewOutboxRepository(conn)
	retentionRepo := postgres.NewRetentionRepository(conn)
	notifications := postgres.NewNotificationRepository(conn)

	outbox := &outboxsvc.UseCase{
		Repo:        outboxRepo,
		MaxAttempts: cfg.OutboxMaxAttempts,
		Log:         log,
	}
	if producer != nil {
		outbox.Handlers = producer.Handlers()
	}

	orderSvc := &ordersvc.UseCase{
		Conn:        conn,
		Orders:      orders,
		Foods:       foods,
		Lots:        lots,
		Disclosures: disclosures,
		Delivery:    delivery,
		Finance:     finance,
		Outbox:      outbox,
		Log:         log,
	}

	retentionSvc := &retentionsvc.UseCase{
		Holds:             retentionRepo,
		Purge:             retentionRepo,
		Orders:            orders,
		OrderSvc:          orderSvc,
		Outbox:            outbox,
		RetentionWindow:   time.Duration(cfg.RetentionWindowDays) * 24 * time.Hour,
		OrderExpiry:       time.Duration(cfg.OrderExpiryMinutes) * time.Minute,
		OrderAutoComplete: time.Duration(cfg.OrderAutoCompleteHours) * time.Hour,
		Log:               log,
	}

	notificationSvc := &notificationsvc.UseCase{
		Repo:      notifications,
		Publisher: notifier,
		Log:       log,
	}

	outboxInterval := time.Duration(cfg.OutboxPollInterval) * time.Second
	if outboxInterval <= 0 {
		outboxInterval = 2 * time.Second
	}

	log.Infof("worker started (outbox poll every %s)", outboxInterval)

	runTicker(ctx, log, "outbox", outboxInterval, func(ctx context.Context) error {
		_, err := outbox.RunOnce(ctx, 100)
		return err
	})
	runTicker(ctx, log, "notifications", outboxInterval, func(ctx context.Context) error {
		_, err := notificationSvc.RunOnce(ctx, 100)
		return err
	})
	runTicker(ctx, log, "order_sweep", time.Minute, retentionSvc.RunOrderSweep)
	runTicker(ctx, log, "retention_sweep", time.Hour, retentionSvc.RunRetentionSweep)

	<-ctx.Done()
	log.Infof("worker shutting down")
}

// runTicker launches fn on its own goroutine, calling it immediately and
// then every interval until ctx is cancelled. A run's own error is logged,
// never fatal: the next tick tries again.
func runTicker(ctx context.Context, log logging.Logger, name string, interval time.Duration, fn func(context.Context) error) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		if err := fn(ctx); err != nil {
			log.Errorf("%s: run failed: %v", name, err)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					log.Errorf("%s: run failed: %v", name, err)
				}
			}
		}
	}()
}
