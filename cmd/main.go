package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/config"
	"github.com/oksasatya/go-live-inventory/internal/application"
	"github.com/oksasatya/go-live-inventory/internal/container"
	"github.com/oksasatya/go-live-inventory/internal/domain/repository"
	"github.com/oksasatya/go-live-inventory/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-live-inventory/internal/infrastructure/postgres"
	"github.com/oksasatya/go-live-inventory/internal/infrastructure/rabbitmq"
	"github.com/oksasatya/go-live-inventory/internal/infrastructure/redisauth"
	handlers "github.com/oksasatya/go-live-inventory/internal/interface/http"
	"github.com/oksasatya/go-live-inventory/internal/interface/middleware"
	"github.com/oksasatya/go-live-inventory/internal/router"
	"github.com/oksasatya/go-live-inventory/pkg/helpers"
	"github.com/oksasatya/go-live-inventory/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	live, err := handlers.NewLiveView(logger)
	if err != nil {
		log.Fatalf("failed to load templates: %v", err)
	}

	// Backing store. A missing configuration is not fatal: the screen is
	// still served and shows the configuration error.
	var store repository.DocumentStore
	configured := cfg.Configured()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Error("store configuration invalid")
	} else {
		store = openStore(ctx, cfg, logger)
		if pool := container.GetPGPool(); pool != nil {
			defer pool.Close()
		}
	}

	// Redis: auth backend and rate limits
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() {
		if rdb != nil {
			_ = rdb.Close()
		}
	}()
	jwtManager := helpers.NewJWTManager(cfg.CustomTokenSecret, cfg.CustomTokenTTL)
	var auth application.AuthBackend
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unavailable; sign-in will fall back to a temporary id and rate limits are off")
		_ = rdb.Close()
		rdb = nil
	} else {
		auth = redisauth.NewBackend(rdb, jwtManager, cfg.AppID, cfg.SessionTTL, logger)
	}

	// Item events
	var events application.EventPublisher = application.NopPublisher{}
	if cfg.ItemEventsEnabled {
		rabbitPub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQItemEventsQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; item events disabled")
		} else {
			defer rabbitPub.Close()
			events = rabbitmq.NewItemEventPublisher(rabbitPub)
		}
	}

	app := application.NewApp(application.Options{
		Configured:   configured,
		AppID:        cfg.AppID,
		InitialToken: cfg.InitialAuthToken,
		Store:        store,
		Auth:         auth,
		Renderer:     live,
		Messages:     live,
		Events:       events,
		Logger:       logger,
	})
	app.Router().OnNavigate(live.ViewChanged)
	if err := app.Start(ctx); err == nil {
		go func() {
			<-app.Ready()
			if sess, ok := app.State().Session(); ok {
				live.SessionResolved(sess)
			}
		}()
	}

	// Provide singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetApp(app)
	container.SetLiveView(live)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) > 0 {
		r.Use(cors.New(corsCfg))
	}
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// request contexts derive from ctx, so this also ends open streams
	stop()
	app.Stop()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) repository.DocumentStore {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pginfra.NewPool(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
		return pginfra.NewDocumentStore(pool, logger)
	default:
		logger.Warn("using in-memory document store; data is lost on restart")
		return memory.NewDocumentStore(logger)
	}
}
