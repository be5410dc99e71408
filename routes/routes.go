package routes

import (
	"time"

	"clinicore/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSchedulingRoutes registers all endpoints for the scheduling engine.
func RegisterSchedulingRoutes(r *gin.Engine, h *handlers.SchedulingHandler) {
	scheduling := r.Group("/api/scheduling")
	{
		scheduling.GET("/availability", h.GetAvailability)
		scheduling.POST("/availability/batch", h.BatchCheck)
		scheduling.POST("/appointments", h.BookAppointment)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *handlers.SchedulingHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSchedulingRoutes(r, h)
}
