package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc/health"

	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/config"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/events"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/handlers"
	healthcheck "github.com/sbilibin2017/gw-withdrawal-workflow/internal/health"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/jwt"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/logger"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/middlewares"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/repositories"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-withdrawal-workflow API
// @version 1.0.0
// @description Microservice for reviewing and settling marketplace withdrawal requests
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// newPublisher connects to the configured event broker. It returns a nil
// publisher when events are disabled.
func newPublisher(cfg config.Events) (services.EventPublisher, io.Closer, error) {
	switch cfg.Broker {
	case config.BrokerKafka:
		p := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		return p, p, nil
	case config.BrokerRabbitMQ:
		p, err := events.DialRabbit(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	default:
		return nil, nil, nil
	}
}

// newRouter mounts the withdrawal API under /api/v1.
func newRouter(
	cfg *config.Config,
	tokener *jwt.JWT,
	withdrawals *services.WithdrawalService,
	listing *services.ListingService,
	fees handlers.FeePolicy,
	otp handlers.OtpVerifier,
) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// Requester routes
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(tokener))
			handlers.RegisterSubmitWithdrawalHandler(r, handlers.NewSubmitWithdrawalHandler(tokener, fees, withdrawals))
			handlers.RegisterListOwnWithdrawalsHandler(r, handlers.NewListOwnWithdrawalsHandler(tokener, listing))
			handlers.RegisterGetOwnWithdrawalHandler(r, handlers.NewGetOwnWithdrawalHandler(tokener, listing))
			handlers.RegisterVerifyOtpHandler(r, handlers.NewVerifyOtpHandler(tokener, listing, otp, withdrawals))
			handlers.RegisterCancelWithdrawalHandler(r, handlers.NewCancelWithdrawalHandler(tokener, listing, withdrawals))
		})

		// Operator routes
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(tokener, jwt.RoleAdmin))
			handlers.RegisterListWithdrawalsHandler(r, handlers.NewListWithdrawalsHandler(listing))
			handlers.RegisterGetWithdrawalHandler(r, handlers.NewGetWithdrawalHandler(listing))
			handlers.RegisterApproveWithdrawalHandler(r, handlers.NewApproveWithdrawalHandler(tokener, withdrawals))
			handlers.RegisterRejectWithdrawalHandler(r, handlers.NewRejectWithdrawalHandler(tokener, withdrawals))
			handlers.RegisterCompleteWithdrawalHandler(r, handlers.NewCompleteWithdrawalHandler(tokener, withdrawals))
			handlers.RegisterRevertWithdrawalHandler(r, handlers.NewRevertWithdrawalHandler(tokener, withdrawals))
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.App.Host, cfg.App.Port)),
	))

	return r
}

// run initializes the logger, database, Redis, event broker, HTTP and gRPC
// health servers. It blocks until a shutdown signal or a server failure.
func run(ctx context.Context, cfg *config.Config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.App.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infow("Logger initialized", "level", cfg.App.LogLevel)

	// Connect to PostgreSQL
	logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.Postgres.Host, "db", cfg.Postgres.DB)
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)

	if cfg.Postgres.AutoMigrate {
		if err := repositories.Migrate(ctx, db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Log.Info("Database schema is up to date")
	}

	// Health
	hs := health.NewServer()
	checker := healthcheck.NewChecker(hs, 10*time.Second, 2*time.Second)
	checker.AddCheck("postgres", db.PingContext)

	// Connect to Redis. Without it transitions run unlocked and OTP checks fail,
	// so it is reported as degraded rather than taking the service down.
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Warnw("Redis is not reachable, request locks and OTP checks are degraded until it recovers", "error", err)
	}
	checker.AddOptionalCheck("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	var locker services.RequestLocker
	if cfg.Redis.LockEnabled {
		locker = repositories.NewRequestLockRepository(rdb, cfg.Redis.LockTTL)
	}
	otpRepo := repositories.NewOtpRepository(rdb)

	// Connect to event broker
	publisher, closer, err := newPublisher(cfg.Events)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", cfg.Events.Broker, err)
	}
	if closer != nil {
		defer closer.Close()
	}
	logger.Log.Infow("Lifecycle events configured", "broker", cfg.Events.Broker)

	// Initialize JWT service
	tokener := jwt.New(
		jwt.WithSecretKey(cfg.JWT.SecretKey),
		jwt.WithExpiration(cfg.JWT.Exp),
	)

	// Initialize repositories
	txManager := repositories.NewTxManager(db)
	writeRepo := repositories.NewWithdrawalWriteRepository(db, repositories.GetTxFromContext)
	readRepo := repositories.NewWithdrawalReadRepository(db, repositories.GetTxFromContext)

	// Initialize services
	withdrawalService := services.NewWithdrawalService(
		writeRepo, readRepo, txManager, locker, publisher,
		services.WithMaxRetries(cfg.Workflow.MaxRetries),
		services.WithRetryDelay(cfg.Workflow.RetryBaseDelay),
		services.WithPublishTimeout(cfg.Events.PublishTimeout),
	)
	listingService := services.NewListingService(readRepo, cfg.Workflow.DefaultPageSize, cfg.Workflow.MaxPageSize)
	feePolicy := services.NewRateFeePolicy(cfg.Workflow.FeeRate, cfg.Workflow.FeeFixed)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port),
		Handler: newRouter(cfg, tokener, withdrawalService, listingService, feePolicy, otpRepo),
	}
	grpcServer := healthcheck.NewGRPCServer(hs)

	// Graceful shutdown
	errChan := make(chan error, 2)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go checker.Run(ctxShutdown)

	go func() {
		if err := healthcheck.Serve(grpcServer, cfg.GRPCPort); err != nil {
			errChan <- fmt.Errorf("gRPC server failed: %w", err)
		}
	}()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.App.Host, cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping servers...")
	case serveErr = <-errChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}
	grpcServer.GracefulStop()

	logger.Log.Info("Servers stopped gracefully")
	return serveErr
}
