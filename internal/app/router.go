package app

import (
	internalhttp "github.com/avaraper/calily-backend/internal/http"
	httpMW "github.com/avaraper/calily-backend/internal/http/middleware"
	"github.com/avaraper/calily-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, handlerset Handlers, authMW *httpMW.AuthMiddleware) *internalhttp.Server {
	log.Info("Wiring router...")
	return internalhttp.NewServer(internalhttp.RouterConfig{
		Log:               log,
		HealthHandler:     handlerset.Health,
		AuthHandler:       handlerset.Auth,
		AuthMiddleware:    authMW,
		UserHandler:       handlerset.User,
		EntryHandler:      handlerset.Entry,
		MedicationHandler: handlerset.Medication,
		InsightHandler:    handlerset.Insight,
	})
}
