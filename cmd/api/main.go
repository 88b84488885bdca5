// Command api runs the HTTP surface described in spec.md §6: the full /v1
// REST API backing the buyer, seller, and admin clients.
package main

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/coziyoo/backend/internal/adapters/httpapi"
	"github.com/coziyoo/backend/internal/adapters/mongoaudit"
	"github.com/coziyoo/backend/internal/adapters/postgres"
	"github.com/coziyoo/backend/internal/adapters/rabbitmq"
	"github.com/coziyoo/backend/internal/adapters/redisstore"
	"github.com/coziyoo/backend/internal/config"
	"github.com/coziyoo/backend/internal/domain/identity"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/internal/services/abusesvc"
	"github.com/coziyoo/backend/internal/services/auditsvc"
	"github.com/coziyoo/backend/internal/services/chatsvc"
	"github.com/coziyoo/backend/internal/services/compliancesvc"
	"github.com/coziyoo/backend/internal/services/deliverysvc"
	"github.com/coziyoo/backend/internal/services/disclosuresvc"
	"github.com/coziyoo/backend/internal/services/disputesvc"
	"github.com/coziyoo/backend/internal/services/financesvc"
	"github.com/coziyoo/backend/internal/services/identitysvc"
	"github.com/coziyoo/backend/internal/services/idempotencysvc"
	"github.com/coziyoo/backend/internal/services/ordersvc"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
	"github.com/coziyoo/backend/internal/services/paymentsvc"
	"github.com/coziyoo/backend/internal/services/retentionsvc"
	"github.com/coziyoo/backend/internal/services/reviewsvc"
	"github.com/coziyoo/backend/pkg/authtoken"
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

	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		panic(err)
	}

	conn := postgres.Connect(ctx, cfg.DatabaseURL, int32(cfg.DatabasePoolMax))
	defer conn.Close()

	redis := redisstore.Connect(ctx, cfg.RedisURL, "", 0)
	defer redis.Close()

	var auditMirror *mongoaudit.Mirror
	if cfg.MongoURL != "" {
		auditMirror = mongoaudit.Connect(ctx, cfg.MongoURL, cfg.MongoDB)
		defer auditMirror.Close()
	}

	var producer *rabbitmq.Producer
	if cfg.RabbitMQURL != "" {
		producer = rabbitmq.Connect(cfg.RabbitMQURL)
	}

	appUsers := postgres.NewAppUserRepository(conn)
	adminUsers := postgres.NewAdminUserRepository(conn)
	sessions := postgres.NewSessionRepository(conn)
	categories := postgres.NewCategoryRepository(conn)
	foods := postgres.NewFoodRepository(conn)
	lots := postgres.NewLotRepository(conn)
	orders := postgres.NewOrderRepository(conn)
	payments := postgres.NewPaymentRepository(conn)
	disclosures := postgres.NewDisclosureRepository(conn)
	delivery := postgres.NewDeliveryRepository(conn)
	disputes := postgres.NewDisputeRepository(conn)
	finance := postgres.NewFinanceRepository(conn)
	compliance := postgres.NewComplianceRepository(conn)
	chats := postgres.NewChatRepository(conn)
	reviews := postgres.NewReviewRepository(conn)
	favorites := postgres.NewFavoriteRepository(conn)
	addresses := postgres.NewAddressRepository(conn)
	audits := postgres.NewAuditRepository(conn)
	retentionRepo := postgres.NewRetentionRepository(conn)
	outboxRepo := postgres.NewOutboxRepository(conn)
	abuseRepo := postgres.NewAbuseRepository(conn)
	media := postgres.NewMediaRepository(conn)

	outbox := &outboxsvc.UseCase{
		Repo:        outboxRepo,
		MaxAttempts: cfg.OutboxMaxAttempts,
		Log:         log,
	}
	if producer != nil {
		outbox.Handlers = producer.Handlers()
	}

	identitySvc := &identitysvc.UseCase{
		AppUsers:          appUsers,
		AdminUsers:        adminUsers,
		Sessions:          sessions,
		AppAccessIssuer:   authtoken.NewIssuer(identity.RealmApp, cfg.AppJWTSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute),
		AdminAccessIssuer: authtoken.NewIssuer(identity.RealmAdmin, cfg.AdminJWTSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute),
		RefreshTokenTTL:   time.Duration(cfg.RefreshTokenTTLDays) * 24 * time.Hour,
		Log:               log,
	}

	abuseSvc := &abusesvc.UseCase{
		Limiter:  redisstore.NewLimiter(redis),
		Repo:     abuseRepo,
		Policies: abusesvc.DefaultPolicies,
		Log:      log,
	}

	idempotencySvc := &idempotencysvc.UseCase{
		Store: redisstore.NewStore(redis),
		TTL:   24 * time.Hour,
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

	paymentSvc := &paymentsvc.UseCase{
		Conn:     conn,
		Orders:   orders,
		Payments: payments,
		OrderSvc: orderSvc,
		Outbox:   outbox,
		Secret:   []byte(cfg.PaymentWebhookSecret),
		Log:      log,
	}

	complianceSvc := &compliancesvc.UseCase{
		Conn:     conn,
		Profiles: compliance,
		Audit:    audits,
		Outbox:   outbox,
		Log:      log,
	}

	disclosureSvc := &disclosuresvc.UseCase{Records: disclosures, Log: log}

	deliverySvc := &deliverysvc.UseCase{Conn: conn, Records: delivery, Outbox: outbox, Log: log}

	disputeSvc := &disputesvc.UseCase{
		Conn:     conn,
		Orders:   orders,
		Disputes: disputes,
		Finance:  finance,
		Audit:    audits,
		Outbox:   outbox,
		Log:      log,
	}

	financeSvc := &financesvc.UseCase{Conn: conn, Finance: finance, Log: log}

	chatSvc := &chatsvc.UseCase{Chats: chats, Log: log}

	reviewSvc := &reviewsvc.UseCase{
		Reviews:   reviews,
		Favorites: favorites,
		Addresses: addresses,
		Orders:    orders,
		Foods:     foods,
		Log:       log,
	}

	auditSvc := &auditsvc.UseCase{Repo: audits, Mirror: auditMirror, Log: log}

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

	deps := &httpapi.Deps{
		Config:      cfg,
		Log:         log,
		Valid:       validator.New(),
		Identity:    identitySvc,
		Abuse:       abuseSvc,
		Idempotency: idempotencySvc,
		Outbox:      outbox,
		Categories:  categories,
		Foods:       foods,
		Lots:        lots,
		Media:       media,
		Orders:      orderSvc,
		Payments:    paymentSvc,
		Compliance:  complianceSvc,
		Disclosure:  disclosureSvc,
		Delivery:    deliverySvc,
		Dispute:     disputeSvc,
		Finance:     financeSvc,
		Chat:        chatSvc,
		Review:      reviewSvc,
		Audit:       auditSvc,
		Retention:   retentionSvc,
	}

	app := httpapi.NewRouter(deps)
	log.Infof("api listening on %s", cfg.ServerAddress)
	if err := app.Listen(cfg.ServerAddress); err != nil {
		log.Errorf("server stopped: %v", err)
	}
}
