// Package brevo sends transactional email through the Brevo v3 API. The
// only message the app sends today is the password-reset code.
package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avaraper/calily-backend/internal/pkg/httpx"
	"github.com/avaraper/calily-backend/internal/pkg/logger"
)

type Client interface {
	SendPasswordResetEmail(ctx context.Context, toEmail string, code string) error
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	fromName   string
	fromEmail  string
	httpClient *http.Client

	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("BREVO_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing BREVO_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("BREVO_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.brevo.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	fromEmail := strings.TrimSpace(os.Getenv("EMAIL_FROM"))
	if fromEmail == "" {
		fromEmail = "noreply@calily.app"
	}

	timeoutSec := 15
	if v := os.Getenv("BREVO_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 2
	if v := os.Getenv("BREVO_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &client{
		log:        log.With("service", "BrevoClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		fromName:   "Calily",
		fromEmail:  fromEmail,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

// HTTPError carries the upstream status for retry classification.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("brevo http %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type emailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type sendEmailRequest struct {
	Sender      emailAddress   `json:"sender"`
	To          []emailAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	TextContent string         `json:"textContent"`
}

func (c *client) SendPasswordResetEmail(ctx context.Context, toEmail string, code string) error {
	req := sendEmailRequest{
		Sender:      emailAddress{Name: c.fromName, Email: c.fromEmail},
		To:          []emailAddress{{Email: toEmail}},
		Subject:     "Calily - Password Reset Code",
		HTMLContent: resetHTML(code),
		TextContent: resetText(code),
	}
	if err := c.do(ctx, "POST", "/v3/smtp/email", req); err != nil {
		return err
	}
	c.log.Info("Password reset email sent", "to", toEmail)
	return nil
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, nil
}

func (c *client) do(ctx context.Context, method, path string, body any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			return nil
		}

		// Resets are user-initiated; a rate-limited send fails fast so the
		// caller can surface it instead of blocking the request.
		var he *HTTPError
		if errors.As(err, &he) && he.StatusCode == http.StatusTooManyRequests {
			return err
		}

		if !httpx.IsRetryableError(err) {
			return err
		}
		if attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("Brevo request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

func resetHTML(code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:20px;font-family:Arial,sans-serif;background-color:#f4f4f4;">
  <table width="600" align="center" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;overflow:hidden;">
    <tr>
      <td style="background-color:#333;padding:30px;text-align:center;">
        <h1 style="color:#ffffff;margin:0;font-size:32px;">CALILY</h1>
        <p style="color:#cccccc;margin:5px 0 0 0;font-size:14px;">Your AI-powered health journal</p>
      </td>
    </tr>
    <tr>
      <td style="padding:40px 30px;">
        <h2 style="color:#333;margin:0 0 20px 0;">Reset Your Password</h2>
        <p style="color:#666;line-height:1.6;">You requested a password reset for your Calily account. Use the code below to reset your password:</p>
        <div style="background-color:#f8f8f8;border:2px solid #e0e0e0;border-radius:8px;padding:30px;text-align:center;margin:30px 0;">
          <p style="color:#999;margin:0 0 10px 0;font-size:14px;text-transform:uppercase;letter-spacing:1px;">Your Reset Code</p>
          <h1 style="color:#333;margin:0;font-size:48px;letter-spacing:8px;font-family:'Courier New',monospace;">%s</h1>
        </div>
        <p style="color:#666;line-height:1.6;">This code will expire in <strong>1 hour</strong>.</p>
        <p style="color:#666;line-height:1.6;">If you didn't request this password reset, you can safely ignore this email. Your password will remain unchanged.</p>
      </td>
    </tr>
    <tr>
      <td style="background-color:#f8f8f8;padding:20px 30px;border-top:1px solid #e0e0e0;">
        <p style="color:#999;font-size:12px;margin:0;">This is an automated message from Calily. Please do not reply to this email.</p>
      </td>
    </tr>
  </table>
</body>
</html>`, code)
}

func resetText(code string) string {
	return fmt.Sprintf(`CALILY - Reset Your Password

You requested a password reset for your Calily account.

Your reset code is: %s

This code will expire in 1 hour.

If you didn't request this, you can safely ignore this email.`, code)
}
