package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobmatch/internal/api/handlers"
	"github.com/yoockh/jobmatch/internal/api/middleware"
)

type Deps struct {
	Jobs    *handlers.JobHandler
	Resumes *handlers.ResumeHandler
	Matches *handlers.MatchHandler
	WS      *handlers.WSHandler

	JWT         middleware.JWTConfig
	CORSOrigins []string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(corsMiddleware(d.CORSOrigins))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Job Portal API"})
	})

	api.GET("/jobs", d.Jobs.List)
	api.POST("/jobs/:id/analyze", d.Jobs.Analyze)

	api.POST("/resume/upload", d.Resumes.Upload)
	api.GET("/resume/:id", d.Resumes.Get)

	api.POST("/match/:resume_id", d.Matches.Compute)
	api.GET("/matches/:resume_id", d.Matches.Get)

	// WebSocket
	api.GET("/ws/match/:resume_id", d.WS.MatchWS)

	// Operator routes (JWT, role admin)
	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(d.JWT), middleware.RequireAdmin())
	admin.POST("/jobs", d.Jobs.Create)
	admin.POST("/jobs/seed", d.Jobs.Seed)
	admin.POST("/jobs/analyze", d.Jobs.AnalyzePending)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
