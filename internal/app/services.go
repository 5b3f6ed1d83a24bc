package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/avaraper/calily-backend/internal/insight/engine"
	"github.com/avaraper/calily-backend/internal/insight/quota"
	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Avatar     services.AvatarService
	User       services.UserService
	Entry      services.EntryService
	Medication services.MedicationService
	Insight    services.InsightService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	avatarService, err := services.NewAvatarService(db, log, reposet.User)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	// A nil interface must stay nil inside the service, so only assign the
	// Brevo client when it was actually constructed.
	var mailer services.Mailer
	if clients.Brevo != nil {
		mailer = clients.Brevo
	}

	authService := services.NewAuthService(
		db, log,
		reposet.User, reposet.UserToken, reposet.PasswordReset, avatarService, mailer,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)

	guard := quota.NewGuard(clients.QuotaStore, log)
	insightEngine := engine.NewService(clients.OpenAI, guard, clients.CacheStore, log)
	insightService := services.NewInsightService(
		db, log,
		insightEngine, clients.OpenAI.Model(),
		reposet.Entry, reposet.Medication, reposet.InsightLog,
	)

	return Services{
		Auth:       authService,
		Avatar:     avatarService,
		User:       services.NewUserService(db, log, reposet.User, avatarService),
		Entry:      services.NewEntryService(db, log, reposet.Entry),
		Medication: services.NewMedicationService(db, log, reposet.Medication),
		Insight:    insightService,
	}, nil
}
