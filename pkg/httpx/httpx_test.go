package httpx_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/autoelectric/shopsvc/pkg/httpx"
)

type statusErr int

func (e statusErr) Error() string       { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatusCode() int { return int(e) }

// timeoutErr looks like a net.Error from a client timeout.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsRetryableResponse(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"deadline", context.DeadlineExceeded, false},
		{"client timeout", fmt.Errorf("post: %w", timeoutErr{}), false},
		{"408", statusErr(http.StatusRequestTimeout), true},
		{"canceled", context.Canceled, false},
		{"429", statusErr(http.StatusTooManyRequests), true},
		{"503 wrapped", fmt.Errorf("send: %w", statusErr(http.StatusServiceUnavailable)), true},
		{"400", statusErr(http.StatusBadRequest), false},
		{"401", statusErr(http.StatusUnauthorized), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := httpx.IsRetryableResponse(tt.err); got != tt.want {
				t.Errorf("IsRetryableResponse(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryAfterDuration(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "3")

	if got := httpx.RetryAfterDuration(resp, time.Second, 10*time.Second); got != 3*time.Second {
		t.Errorf("got %v, want 3s", got)
	}
	if got := httpx.RetryAfterDuration(resp, time.Second, 2*time.Second); got != 2*time.Second {
		t.Errorf("cap not applied: got %v", got)
	}
	if got := httpx.RetryAfterDuration(nil, time.Second, 0); got != time.Second {
		t.Errorf("fallback not used: got %v", got)
	}
}

func TestJitterSleep(t *testing.T) {
	if got := httpx.JitterSleep(0); got != 0 {
		t.Errorf("JitterSleep(0) = %v", got)
	}
	for i := 0; i < 100; i++ {
		got := httpx.JitterSleep(time.Second)
		if got < 800*time.Millisecond || got > 1200*time.Millisecond {
			t.Fatalf("JitterSleep(1s) = %v, outside +/-20%%", got)
		}
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := httpx.Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep err = %v, want context.Canceled", err)
	}
}
