package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-live-inventory/internal/interface/http"
	"github.com/oksasatya/go-live-inventory/internal/interface/middleware"
)

// InventoryModule wires the screen and the inventory API.
// Page: GET /
// Public: GET /api/session, /api/inventory, /api/inventory/stream, /api/view, /api/messages,
// POST /api/view
// Session required: POST/PUT/DELETE /api/inventory, POST /api/view/edit/:id
type InventoryModule struct {
	Handler  *handlers.InventoryHandler
	Sessions middleware.SessionSource
	Redis    *redis.Client
}

func NewInventoryModule(h *handlers.InventoryHandler, sessions middleware.SessionSource, rdb *redis.Client) *InventoryModule {
	return &InventoryModule{Handler: h, Sessions: sessions, Redis: rdb}
}

func (m *InventoryModule) RegisterPages(e *gin.Engine) {
	e.GET("/", m.Handler.Page)
}

func (m *InventoryModule) Register(rg *gin.RouterGroup) {
	streamLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	rg.GET("/session", m.Handler.Session)
	rg.GET("/inventory", m.Handler.List)
	rg.GET("/inventory/stream", streamLimiter, m.Handler.Stream)
	rg.GET("/view", m.Handler.CurrentView)
	rg.GET("/messages", m.Handler.Messages)
	rg.POST("/view", m.Handler.Navigate)

	gated := rg.Group("/")
	gated.Use(
		middleware.RequireSession(m.Sessions),
		middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()),
	)
	{
		gated.POST("/inventory", m.Handler.Create)
		gated.PUT("/inventory/:id", m.Handler.Update)
		gated.DELETE("/inventory/:id", m.Handler.Delete)
		gated.POST("/view/edit/:id", m.Handler.Edit)
	}
}
