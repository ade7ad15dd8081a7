package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fekuna/omnipos-catalog-service/config"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/broker"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/grpcx"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/search"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"

	adminH "github.com/fekuna/omnipos-catalog-service/internal/admin/handler"
	adminRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/admin/repository"
	adminUCPkg "github.com/fekuna/omnipos-catalog-service/internal/admin/usecase"

	branchH "github.com/fekuna/omnipos-catalog-service/internal/branch/handler"
	branchRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/branch/repository"
	branchUCPkg "github.com/fekuna/omnipos-catalog-service/internal/branch/usecase"

	brandH "github.com/fekuna/omnipos-catalog-service/internal/brand/handler"
	brandRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/brand/repository"
	brandUCPkg "github.com/fekuna/omnipos-catalog-service/internal/brand/usecase"

	catH "github.com/fekuna/omnipos-catalog-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-catalog-service/internal/category/usecase"

	discH "github.com/fekuna/omnipos-catalog-service/internal/discount/handler"
	discRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/discount/repository"
	discUCPkg "github.com/fekuna/omnipos-catalog-service/internal/discount/usecase"

	invH "github.com/fekuna/omnipos-catalog-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-catalog-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-catalog-service/internal/inventory/usecase"

	prodH "github.com/fekuna/omnipos-catalog-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-catalog-service/internal/product/usecase"

	varH "github.com/fekuna/omnipos-catalog-service/internal/variant/handler"
	varRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/variant/repository"
	varUCPkg "github.com/fekuna/omnipos-catalog-service/internal/variant/usecase"

	"github.com/fekuna/omnipos-catalog-service/internal/brand"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
)

const producerBuffer = 256

func main() {
	// 1. Load Configuration
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(db.DB); err != nil {
			appLogger.Fatal("Could not apply migrations", zap.Error(err))
		}
		appLogger.Info("Migrations applied")
	}

	// 4. Initialize Redis. The service degrades to uncached, unlocked
	// operation when it is disabled or unreachable.
	var (
		variantCache variant.Cache
		productCache product.Cache
		invalidator  *cache.RedisClient
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			variantCache, productCache, invalidator = redisClient, redisClient, redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 5. Initialize Elasticsearch
	var searcher product.Searcher
	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search falls back to SQL", zap.Error(err))
		} else {
			searcher = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 6. Initialize Kafka
	var (
		variantEvents variant.EventPublisher
		stockEvents   inventory.EventPublisher
		kafkaConsumer *broker.KafkaConsumer
	)
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.VariantsTopic,
		}, "catalog-service", producerBuffer, appLogger)
		producer.Start()
		defer producer.Close()
		variantEvents, stockEvents = producer, producer

		kafkaConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.OrdersTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("produce", cfg.Kafka.VariantsTopic),
			zap.String("consume", cfg.Kafka.OrdersTopic),
		)
	}

	// 7. Initialize Repositories
	varRepo := varRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	catRepo := catRepoPkg.NewPGRepository(db)
	brandRepo := brandRepoPkg.NewPGRepository(db)
	branchRepo := branchRepoPkg.NewPGRepository(db)
	discRepo := discRepoPkg.NewPGRepository(db)
	adminRepo := adminRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)

	// 8. Initialize UseCases
	tokens := auth.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.TTL)

	var (
		catCache   category.CacheInvalidator
		brandCache brand.CacheInvalidator
		invCache   inventory.CacheInvalidator
	)
	if invalidator != nil {
		catCache, brandCache, invCache = invalidator, invalidator, invalidator
	}

	varUC := varUCPkg.NewVariantUseCase(varRepo, variant.NewSKUGenerator(), variantCache, variantEvents, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, productCache, searcher, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, catCache, appLogger)
	brandUC := brandUCPkg.NewBrandUseCase(brandRepo, brandCache, appLogger)
	branchUC := branchUCPkg.NewBranchUseCase(branchRepo, appLogger)
	discUC := discUCPkg.NewDiscountUseCase(discRepo, appLogger)
	adminUC := adminUCPkg.NewAdminUseCase(adminRepo, tokens, cfg.JWT.BcryptCost, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, invCache, stockEvents, appLogger)

	// 9. Initialize Handlers
	router := httpx.NewRouter(appLogger, tokens, adminRepo.FindByID, cfg.Metrics.Enabled)

	prodHandler := prodH.NewProductHandler(prodUC, appLogger)
	varHandler := varH.NewVariantHandler(varUC, appLogger)
	invHandler := invH.NewInventoryHandler(invUC, appLogger)

	router.Route("/products", func(r chi.Router) {
		prodHandler.Register(r)
		varHandler.RegisterProductRoutes(r)
	})
	router.Route("/variants", func(r chi.Router) {
		varHandler.Register(r)
		invHandler.Register(r)
	})
	router.Route("/categories", catH.NewCategoryHandler(catUC, appLogger).Register)
	router.Route("/brands", brandH.NewBrandHandler(brandUC, appLogger).Register)
	router.Route("/branches", branchH.NewBranchHandler(branchUC, appLogger).Register)
	router.Route("/discounts", discH.NewDiscountHandler(discUC, appLogger).Register)
	router.Route("/admin", adminH.NewAdminHandler(adminUC, appLogger).Register)

	// 10. Start servers
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	grpcServer := grpcx.NewServer(appLogger)

	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return grpcServer.Serve(lis)
	})
	if kafkaConsumer != nil {
		invListener := invListenerPkg.NewInventoryListener(kafkaConsumer, invUC, appLogger)
		g.Go(func() error {
			invListener.Start(gctx)
			return nil
		})
	}

	// Graceful Shutdown
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server exited with error", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
