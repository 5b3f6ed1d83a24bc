package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/repos"
	"github.com/avaraper/calily-backend/internal/requestdata"
	"github.com/avaraper/calily-backend/internal/types"
)

// stubAvatarService skips PNG rendering so auth tests don't need a font file.
type stubAvatarService struct{}

func (stubAvatarService) CreateUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error {
	user.AvatarPNG = []byte("png")
	return nil
}

func (stubAvatarService) SetUserAvatarFromImage(ctx context.Context, user *types.User, raw []byte) error {
	return nil
}

func newAuthHarness(t *testing.T, mailer Mailer) (AuthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	svc := NewAuthService(
		db,
		log,
		repos.NewUserRepo(db, log),
		repos.NewUserTokenRepo(db, log),
		repos.NewPasswordResetRepo(db, log),
		stubAvatarService{},
		mailer,
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
	return svc, db
}

func newAuthServiceForTest(t *testing.T) AuthService {
	t.Helper()
	svc, _ := newAuthHarness(t, nil)
	return svc
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc := newAuthServiceForTest(t)
	ctx := context.Background()

	user, pair, err := svc.RegisterUser(ctx, "Maya Chen", "Maya@Example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "maya@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("want issued token pair, got %+v", pair)
	}
	if user.Password == "hunter2hunter2" {
		t.Fatalf("password stored in plaintext")
	}

	authed, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("token rejected: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("want user %s on context, got %v", user.ID, rd)
	}

	if _, _, err := svc.LoginUser(ctx, "maya@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, _, err := svc.LoginUser(ctx, "maya@example.com", "wrong-password"); err == nil {
		t.Fatalf("want login failure for wrong password")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthServiceForTest(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"missing name", "", "a@b.com", "longenough"},
		{"short password", "Maya", "a@b.com", "short"},
		{"bad email", "Maya", "not-an-email", "longenough"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.RegisterUser(ctx, tc.userName, tc.email, tc.password); err == nil {
				t.Fatalf("want validation error, got nil")
			}
		})
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthServiceForTest(t)
	ctx := context.Background()

	if _, _, err := svc.RegisterUser(ctx, "Maya", "maya@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.RegisterUser(ctx, "Other", "MAYA@example.com", "hunter2hunter2"); err == nil {
		t.Fatalf("want duplicate email error")
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc := newAuthServiceForTest(t)
	ctx := context.Background()

	_, pair, err := svc.RegisterUser(ctx, "Maya", "maya@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	rotated, err := svc.RefreshUser(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatalf("refresh token not rotated")
	}

	// The old pair was deleted during rotation.
	if _, err := svc.RefreshUser(ctx, pair.RefreshToken); err == nil {
		t.Fatalf("want error for consumed refresh token")
	}
	if _, err := svc.SetContextFromToken(ctx, pair.AccessToken); err == nil {
		t.Fatalf("want old access token revoked")
	}
}

func TestLogoutRevokesTokens(t *testing.T) {
	svc := newAuthServiceForTest(t)
	ctx := context.Background()

	_, pair, err := svc.RegisterUser(ctx, "Maya", "maya@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	authed, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("token rejected: %v", err)
	}
	if err := svc.LogoutUser(authed); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.SetContextFromToken(ctx, pair.AccessToken); err == nil {
		t.Fatalf("want token rejected after logout")
	}
}
