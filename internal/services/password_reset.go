package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/avaraper/calily-backend/internal/types"
)

const resetCodeTTL = time.Hour

// ForgotPassword issues a fresh 6-digit reset code for the account. An
// unknown email gets the same success as a known one so the endpoint does
// not reveal which addresses have accounts. With a mailer configured the code is
// emailed and devCode is empty; without one it is returned for the caller
// to surface.
func (as *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("email is required")
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		as.log.Info("Password reset requested for unknown email")
		return "", nil
	}

	code, err := generateResetCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}

	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.resetRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
			return fmt.Errorf("failed to clear previous reset codes: %w", err)
		}
		_, err := as.resetRepo.Create(ctx, tx, &types.PasswordReset{
			ID:        uuid.New(),
			UserID:    user.ID,
			Code:      code,
			ExpiresAt: time.Now().Add(resetCodeTTL),
		})
		return err
	}); err != nil {
		return "", err
	}

	if as.mailer == nil {
		as.log.Warn("No mailer configured, returning reset code to caller", "user_id", user.ID.String())
		return code, nil
	}
	if err := as.mailer.SendPasswordResetEmail(ctx, email, code); err != nil {
		return "", fmt.Errorf("failed to send reset email: %w", err)
	}
	as.log.Info("Password reset code issued", "user_id", user.ID.String())
	return "", nil
}

// ResetPassword consumes a reset code, replaces the password and revokes
// every outstanding session so stolen tokens die with the old password.
func (as *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)

	if email == "" || code == "" {
		return fmt.Errorf("email and reset code are required")
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("invalid reset code")
	}

	reset, err := as.resetRepo.GetByUserAndCode(ctx, nil, user.ID, code)
	if err != nil {
		return fmt.Errorf("failed to look up reset code: %w", err)
	}
	if reset == nil {
		return fmt.Errorf("invalid reset code")
	}
	if reset.ExpiresAt.Before(time.Now()) {
		_ = as.resetRepo.DeleteByUserID(ctx, nil, user.ID)
		return fmt.Errorf("reset code expired")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user.Password = string(hashed)
		if err := as.userRepo.Update(ctx, tx, user); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if err := as.resetRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
			return fmt.Errorf("failed to consume reset code: %w", err)
		}
		if err := as.userTokenRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	as.log.Info("Password reset completed", "user_id", user.ID.String())
	return nil
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
