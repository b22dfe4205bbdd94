package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/config"
	"github.com/oksasatya/go-live-inventory/internal/application"
	handlers "github.com/oksasatya/go-live-inventory/internal/interface/http"
)

// app-level container to share constructed components across packages.
// Router modules auto-wire from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	app      *application.App
	liveView *handlers.LiveView
)

func SetConfig(c *config.Config)       { cfg = c }
func GetConfig() *config.Config        { return cfg }
func SetLogger(l *logrus.Logger)       { logger = l }
func GetLogger() *logrus.Logger        { return logger }
func SetPGPool(p *pgxpool.Pool)        { pgPool = p }
func GetPGPool() *pgxpool.Pool         { return pgPool }
func SetRedis(r *redis.Client)         { redisClient = r }
func GetRedis() *redis.Client          { return redisClient }
func SetApp(a *application.App)        { app = a }
func GetApp() *application.App         { return app }
func SetLiveView(v *handlers.LiveView) { liveView = v }
func GetLiveView() *handlers.LiveView  { return liveView }
