package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/avaraper/calily-backend/internal/http/handlers"
	httpMW "github.com/avaraper/calily-backend/internal/http/middleware"
	"github.com/avaraper/calily-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	UserHandler       *httpH.UserHandler
	EntryHandler      *httpH.EntryHandler
	MedicationHandler *httpH.MedicationHandler
	InsightHandler    *httpH.InsightHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("calily-backend"))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
			api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
			api.POST("/auth/forgot-password", cfg.AuthHandler.ForgotPassword)
			api.POST("/auth/reset-password", cfg.AuthHandler.ResetPassword)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}

		// User (me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.GET("/me/avatar", cfg.UserHandler.GetAvatar)
			protected.POST("/me/avatar", cfg.UserHandler.SetAvatar)
		}

		// Journal entries
		if cfg.EntryHandler != nil {
			protected.POST("/entries", cfg.EntryHandler.Create)
			protected.GET("/entries", cfg.EntryHandler.List)
			protected.GET("/entries/search", cfg.EntryHandler.Search)
			protected.GET("/entries/stats", cfg.EntryHandler.Stats)
			protected.GET("/entries/export", cfg.EntryHandler.Export)
			protected.GET("/entries/:id", cfg.EntryHandler.Get)
			protected.PUT("/entries/:id", cfg.EntryHandler.Update)
			protected.DELETE("/entries/:id", cfg.EntryHandler.Delete)
		}

		// Medications
		if cfg.MedicationHandler != nil {
			protected.POST("/medications", cfg.MedicationHandler.Create)
			protected.GET("/medications", cfg.MedicationHandler.List)
			protected.PUT("/medications/:id", cfg.MedicationHandler.Update)
			protected.DELETE("/medications/:id", cfg.MedicationHandler.Delete)
			protected.POST("/medications/:id/doses", cfg.MedicationHandler.ToggleDose)
		}

		// AI insights
		if cfg.InsightHandler != nil {
			protected.POST("/ai/weekly-summary", cfg.InsightHandler.WeeklySummary)
			protected.POST("/ai/analyze-patterns", cfg.InsightHandler.AnalyzePatterns)
			protected.POST("/ai/identify-triggers", cfg.InsightHandler.IdentifyTriggers)
			protected.POST("/ai/doctor-visit", cfg.InsightHandler.DoctorVisitPrep)
			protected.POST("/ai/trend-analysis", cfg.InsightHandler.TrendAnalysis)
			protected.GET("/ai/history", cfg.InsightHandler.History)
		}
	}

	return r
}
