package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/youruser/casecard/internal/metrics"
)

// NewRouter wires middleware, the card API and the metrics endpoint, which
// serves reg.
func NewRouter(h *Handler, logger *slog.Logger, reg metrics.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestContext(logger), metrics.NewHTTP(reg).Middleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	RegisterRoutes(r, h)
	return r
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/layouts", h.listLayouts)
		api.GET("/layouts/:name", h.getLayout)
		api.POST("/card/image", h.cardImage)
		api.POST("/card/plan", h.cardPlan)
		api.POST("/card/multi/image", h.multiImage)
		api.POST("/card/multi/plan", h.multiPlan)
		api.GET("/qr", h.qr)
	}
}
