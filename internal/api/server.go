// @title AmiAble Application Service API
// @version 1.0
// @description Registration intake and reviewer approval endpoints.
// @host localhost:3000
// @BasePath /
// @schemes http
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <JWT>

package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SundayYogurt/application_service/config"
	"github.com/SundayYogurt/application_service/infra/cache"
	"github.com/SundayYogurt/application_service/infra/mail"
	"github.com/SundayYogurt/application_service/infra/queue"
	"github.com/SundayYogurt/application_service/internal/api/rest/handlers"
	"github.com/SundayYogurt/application_service/internal/helper"
	"github.com/SundayYogurt/application_service/internal/helper/utils"
	"github.com/SundayYogurt/application_service/internal/interfaces"
	"github.com/SundayYogurt/application_service/internal/metrics"
	"github.com/SundayYogurt/application_service/internal/notification"
	"github.com/SundayYogurt/application_service/internal/repository"
	"github.com/SundayYogurt/application_service/internal/services"
	"github.com/SundayYogurt/application_service/pkg/cloudinary"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const rateLimitMessage = "Too many requests from this IP, please try again later."

// Deps is everything NewApp mounts. Uploader and LimiterStorage may be nil.
type Deps struct {
	Intake         services.IntakeService
	Decision       services.DecisionService
	Stats          services.StatsService
	Health         interfaces.HealthChecker
	Uploader       interfaces.Uploader
	Auth           helper.Auth
	LimiterStorage fiber.Storage
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
}

func NewApp(cfg config.Config, deps Deps) *fiber.App {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "application-svc",
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: errorHandler(log),
	})
	app.Use(recover.New())
	RegisterSwagger(app)

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, OPTIONS",
		AllowCredentials: cfg.BaseURL != "*",
	}))

	// ---------- Public rate limit ----------
	limit := cfg.RateLimitMax
	if limit <= 0 {
		limit = 100
	}
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = 15 * time.Minute
	}
	publicLimiter := limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		Storage:    deps.LimiterStorage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.ResponseError(c, fiber.StatusTooManyRequests, rateLimitMessage)
		},
	})

	// ---------- Routes ----------
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	handlers.NewHealthHandler(deps.Health).SetupRoutes(app)
	handlers.NewApplicationHandler(deps.Intake, deps.Decision, deps.Stats, log).
		SetupRoutes(app, deps.Auth, publicLimiter)
	handlers.NewUploadHandler(deps.Uploader, log).SetupRoutes(app, publicLimiter)

	app.Use(func(c *fiber.Ctx) error {
		return utils.ResponseError(c, fiber.StatusNotFound, "Route not found")
	})
	return app
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return utils.ResponseError(c, code, msg)
	}
}

func StartServer(cfg config.Config, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("database connection error", zap.Error(err))
	}
	log.Info("database connected")

	if err := migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migration successful")

	store := repository.NewStore(db)
	m := metrics.New()

	// ---------- Notification ----------
	mailer, closeMailer := newMailer(cfg, log)
	defer closeMailer()

	dispatcher, err := notification.NewDispatcher(mailer, notification.DispatcherOptions{
		LoginURL: cfg.LoginURL,
		Logger:   log.Named("mail"),
		Metrics:  m,
	})
	if err != nil {
		log.Fatal("mail templates", zap.Error(err))
	}
	relay := notification.NewRelay(store.Repositories().Outbox, dispatcher, notification.RelayOptions{
		Interval:    cfg.OutboxPollInterval,
		MaxAttempts: cfg.OutboxMaxAttempts,
		Logger:      log,
		Metrics:     m,
	})
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relay.Run(ctx)
	}()

	// ---------- Infra ----------
	var storage fiber.Storage
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err != nil {
			log.Warn("redis unavailable, rate limit falls back to memory", zap.Error(err))
		} else {
			s := cache.NewStorage(rdb, "ratelimit:")
			defer s.Close()
			storage = s
		}
	}

	var uploader interfaces.Uploader
	if cld, err := cloudinary.New(cfg.CloudinaryURL); err != nil {
		log.Warn("cloudinary disabled", zap.Error(err))
	} else {
		uploader = cloudinary.NewCloudinaryUploader(cld)
	}

	// ---------- Services ----------
	opts := services.Options{Logger: log, Metrics: m}
	repos := store.Repositories()
	app := NewApp(cfg, Deps{
		Intake:         services.NewIntakeService(repos.Applications, repos.Accounts, store, opts),
		Decision:       services.NewDecisionService(store, store, relay, opts),
		Stats:          services.NewStatsService(repos.Applications, store),
		Health:         store,
		Uploader:       uploader,
		Auth:           helper.SetupAuth(cfg.AccessSecret),
		LimiterStorage: storage,
		Metrics:        m,
		Logger:         log,
	})

	// ---------- Listen ----------
	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("addr", cfg.ServerPort))
	if err := app.Listen(cfg.ServerPort); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
	stop()
	<-relayDone
}

// migrate serialises schema changes across replicas with a postgres advisory lock.
// Session locks belong to one connection, so lock, migrate and unlock share it.
func migrate(db *gorm.DB) error {
	return db.Connection(func(conn *gorm.DB) error {
		return withAdvisoryLock(conn, migrateLockID, func() error {
			return repository.AutoMigrate(conn)
		})
	})
}

const migrateLockID int64 = 20260222

func withAdvisoryLock(conn *gorm.DB, id int64, fn func() error) error {
	if err := conn.Exec("SELECT pg_advisory_lock(?)", id).Error; err != nil {
		return fmt.Errorf("migration lock: %w", err)
	}
	defer func() {
		_ = conn.Exec("SELECT pg_advisory_unlock(?)", id).Error
	}()
	return fn()
}

func newMailer(cfg config.Config, log *zap.Logger) (notification.Mailer, func()) {
	switch cfg.MailTransport {
	case config.MailTransportKafka:
		producer := queue.NewProducer(queue.KafkaConfig{
			Broker:   cfg.KafkaBroker,
			Topic:    cfg.KafkaTopic,
			Username: cfg.KafkaUsername,
			Password: cfg.KafkaPassword,
		}, log)
		log.Info("mail via kafka", zap.String("topic", cfg.KafkaTopic))
		return notification.NewKafkaMailer(producer), func() { _ = producer.Close() }
	case config.MailTransportSMTP:
		log.Info("mail via smtp", zap.String("host", cfg.SMTPHost))
		return mail.NewSMTPMailer(smtpConfig(cfg), log), func() {}
	default:
		log.Info("mail transport is log only")
		return notification.NewLogMailer(log), func() {}
	}
}

func smtpConfig(cfg config.Config) mail.SMTPConfig {
	return mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.GmailUser,
		Password: cfg.GmailAppPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	}
}
