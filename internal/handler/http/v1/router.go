package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1. Маршруты приема и
// чтения закрыты API-ключом, если ключи заданы; health-check всегда открыт.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	protected := api.Group("")
	if len(h.cfg.APIKeys) > 0 {
		protected.Use(APIKeyAuthMiddleware(h.cfg, h.logger))
	}

	// Маршруты приема и чтения инцидентов
	incidents := protected.Group("/incidents")
	{
		incidents.POST("/ingest", h.ingestReport)
		incidents.GET("", h.listIncidents)
		incidents.GET("/stats", h.getStats)
		incidents.GET("/:id", h.getIncident)
	}

	// Маршрут оценки риска
	protected.POST("/risk/assess", h.assessRisk)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
