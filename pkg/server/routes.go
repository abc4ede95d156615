package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nikogura/ats-match/pkg/service"
)

func registerRoutes(r *gin.Engine, h *AnalysisHandler, svc *service.Service, mcpHandler http.Handler) {
	api := r.Group("/api/analysis")
	api.POST("", h.Analyze)
	api.GET("/test", h.Test)
	api.GET("/industries", h.Industries)

	r.GET("/metrics", h.Metrics)

	if mcpHandler != nil {
		r.Any("/mcp", gin.WrapH(mcpHandler))
		svc.Logger().Debug("mcp endpoint mounted", "path", "/mcp")
	}
}
