package app

import (
	"gorm.io/gorm"

	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/repos"
)

type Repos struct {
	User          repos.UserRepo
	UserToken     repos.UserTokenRepo
	PasswordReset repos.PasswordResetRepo
	Entry         repos.EntryRepo
	Medication    repos.MedicationRepo
	InsightLog    repos.InsightLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		UserToken:     repos.NewUserTokenRepo(db, log),
		PasswordReset: repos.NewPasswordResetRepo(db, log),
		Entry:         repos.NewEntryRepo(db, log),
		Medication:    repos.NewMedicationRepo(db, log),
		InsightLog:    repos.NewInsightLogRepo(db, log),
	}
}
