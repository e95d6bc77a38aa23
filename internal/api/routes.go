package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes. metrics may be nil.
func SetupRoutes(router *gin.Engine, handler *Handler, metrics http.Handler) {
	router.GET("/healthz", handler.Health)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	api := router.Group("/api")
	{
		run := api.Group("/run")
		{
			run.GET("", handler.GetRun)       // GET /api/run
			run.POST("", handler.StartRun)    // POST /api/run
			run.DELETE("", handler.CancelRun) // DELETE /api/run
		}

		complaints := api.Group("/complaints")
		{
			complaints.GET("", handler.ListComplaints)       // GET /api/complaints
			complaints.GET("/:code", handler.GetComplaint)   // GET /api/complaints/:code
			complaints.PATCH("/:code", handler.UpdateStatus) // PATCH /api/complaints/:code
			complaints.POST("/:code/upvote", handler.Upvote) // POST /api/complaints/:code/upvote
		}

		api.GET("/map", handler.Map)            // GET /api/map
		api.POST("/classify", handler.Classify) // POST /api/classify
	}
}
