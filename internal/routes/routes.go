package routes

import (
	"net/http"

	"cardkey_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the whole HTTP surface under /api/v1.
func RegisterRoutes(r *gin.Engine, h *handlers.AppHandlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		h.UserHandler.RegisterRoutes(api)
		h.ProgramHandler.RegisterRoutes(api)
		h.CardHandler.RegisterRoutes(api)
		h.RechargeHandler.RegisterRoutes(api)
		h.PackageHandler.RegisterRoutes(api)
	}
}
