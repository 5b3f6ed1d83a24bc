package app

import (
	httpH "github.com/avaraper/calily-backend/internal/http/handlers"
	httpMW "github.com/avaraper/calily-backend/internal/http/middleware"
	"github.com/avaraper/calily-backend/internal/pkg/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Entry      *httpH.EntryHandler
	Medication *httpH.MedicationHandler
	Insight    *httpH.InsightHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Auth:       httpH.NewAuthHandler(serviceset.Auth),
		User:       httpH.NewUserHandler(serviceset.User),
		Entry:      httpH.NewEntryHandler(serviceset.Entry),
		Medication: httpH.NewMedicationHandler(serviceset.Medication),
		Insight:    httpH.NewInsightHandler(serviceset.Insight),
	}
}

func wireMiddleware(log *logger.Logger, serviceset Services) *httpMW.AuthMiddleware {
	return httpMW.NewAuthMiddleware(log, serviceset.Auth)
}
