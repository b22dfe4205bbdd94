package router

import (
	"github.com/oksasatya/go-live-inventory/internal/container"
	handlers "github.com/oksasatya/go-live-inventory/internal/interface/http"
	"github.com/oksasatya/go-live-inventory/internal/router/modules"
)

func buildInventoryHandler() *handlers.InventoryHandler {
	return handlers.NewInventoryHandler(
		container.GetApp(),
		container.GetLiveView(),
		container.GetLogger(),
		container.GetConfig().AppName,
	)
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	r.Add(modules.NewInventoryModule(buildInventoryHandler(), container.GetApp().State(), container.GetRedis()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetRedis()))
	}
}
