package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

type statusErr struct{ code int }

func (e statusErr) Error() string       { return fmt.Sprintf("status %d", e.code) }
func (e statusErr) HTTPStatusCode() int { return e.code }

func TestIsRetryableHTTPStatus(t *testing.T) {
	cases := []struct {
		code int
		want bool
	}{
		{200, false},
		{400, false},
		{404, false},
		{408, true},
		{429, true},
		{500, true},
		{503, true},
		{599, true},
	}
	for _, tc := range cases {
		if got := IsRetryableHTTPStatus(tc.code); got != tc.want {
			t.Fatalf("code %d: want=%v got=%v", tc.code, tc.want, got)
		}
	}
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, true},
		{"status 500", statusErr{500}, true},
		{"status 429", statusErr{429}, true},
		{"status 400", statusErr{400}, false},
		{"wrapped status", fmt.Errorf("call failed: %w", statusErr{503}), true},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryableError(tc.err); got != tc.want {
				t.Fatalf("want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestRetryAfterDuration(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "3")

	if got := RetryAfterDuration(resp, time.Second, time.Minute); got != 3*time.Second {
		t.Fatalf("header honored: want=3s got=%v", got)
	}
	if got := RetryAfterDuration(nil, time.Second, time.Minute); got != time.Second {
		t.Fatalf("nil response falls back: want=1s got=%v", got)
	}
	resp.Header.Set("Retry-After", "600")
	if got := RetryAfterDuration(resp, time.Second, 10*time.Second); got != 10*time.Second {
		t.Fatalf("cap applied: want=10s got=%v", got)
	}
	resp.Header.Set("Retry-After", "garbage")
	if got := RetryAfterDuration(resp, 2*time.Second, time.Minute); got != 2*time.Second {
		t.Fatalf("bad header ignored: want=2s got=%v", got)
	}
}

func TestJitterSleepStaysNearBase(t *testing.T) {
	base := time.Second
	for i := 0; i < 50; i++ {
		got := JitterSleep(base)
		if got < 800*time.Millisecond || got > 1200*time.Millisecond {
			t.Fatalf("jitter out of range: %v", got)
		}
	}
	if got := JitterSleep(0); got != 0 {
		t.Fatalf("zero base: want=0 got=%v", got)
	}
}
