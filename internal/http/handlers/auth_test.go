package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/avaraper/calily-backend/internal/services"
	"github.com/avaraper/calily-backend/internal/types"
)

type stubAuthService struct {
	devCode  string
	resetErr error
}

func (s *stubAuthService) RegisterUser(context.Context, string, string, string) (*types.User, *services.TokenPair, error) {
	return nil, nil, errors.New("not implemented")
}

func (s *stubAuthService) LoginUser(context.Context, string, string) (*types.User, *services.TokenPair, error) {
	return nil, nil, errors.New("not implemented")
}

func (s *stubAuthService) RefreshUser(context.Context, string) (*services.TokenPair, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) LogoutUser(context.Context) error { return nil }

func (s *stubAuthService) SetContextFromToken(ctx context.Context, _ string) (context.Context, error) {
	return ctx, nil
}

func (s *stubAuthService) ForgotPassword(context.Context, string) (string, error) {
	return s.devCode, nil
}

func (s *stubAuthService) ResetPassword(context.Context, string, string, string) error {
	return s.resetErr
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func newAuthRouter(svc services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(svc)
	r.POST("/api/auth/forgot-password", h.ForgotPassword)
	r.POST("/api/auth/reset-password", h.ResetPassword)
	return r
}

func TestForgotPasswordEchoesDevCode(t *testing.T) {
	r := newAuthRouter(&stubAuthService{devCode: "123456"})

	rec := postJSON(t, r, "/api/auth/forgot-password", `{"email":"maya@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["resetToken"] != "123456" {
		t.Fatalf("want dev resetToken in body, got %v", body)
	}
}

func TestForgotPasswordOmitsCodeWhenMailed(t *testing.T) {
	r := newAuthRouter(&stubAuthService{devCode: ""})

	rec := postJSON(t, r, "/api/auth/forgot-password", `{"email":"maya@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if _, leaked := body["resetToken"]; leaked {
		t.Fatalf("resetToken must not appear when the code was emailed: %v", body)
	}
}

func TestResetPasswordMapsFailureTo400(t *testing.T) {
	r := newAuthRouter(&stubAuthService{resetErr: errors.New("invalid reset code")})

	rec := postJSON(t, r, "/api/auth/reset-password", `{"email":"maya@example.com","token":"000000","newPassword":"newpassword99"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid reset code") {
		t.Fatalf("error message missing: %s", rec.Body.String())
	}
}
