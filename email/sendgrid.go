package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/autoelectric/shopsvc/pkg/httpx"
)

const defaultBaseURL = "https://api.sendgrid.com"

// sendgrid is a minimal client for the v3 mail send endpoint.
type sendgrid struct {
	log        *zap.SugaredLogger
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To []address `json:"to"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailSendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
	Categories       []string          `json:"categories,omitempty"`
}

type message struct {
	To       string
	From     string
	Subject  string
	Text     string
	HTML     string
	Category string
}

type errorItem struct {
	Message string `json:"message"`
	Field   any    `json:"field,omitempty"`
}

type errorResponse struct {
	Errors []errorItem `json:"errors"`
}

// HTTPError is a non-2xx answer from SendGrid.
type HTTPError struct {
	StatusCode int
	Body       string
	Errors     []errorItem
}

func (e *HTTPError) Error() string {
	if len(e.Errors) > 0 && strings.TrimSpace(e.Errors[0].Message) != "" {
		return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, e.Errors[0].Message)
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 4000 {
		msg = msg[:4000] + "..."
	}
	return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	return e.StatusCode
}

func (c *sendgrid) send(ctx context.Context, m message) error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("sendgrid: recipient required")
	}
	if strings.TrimSpace(m.From) == "" {
		return fmt.Errorf("sendgrid: sender required")
	}

	var parts []content
	if t := strings.TrimSpace(m.Text); t != "" {
		parts = append(parts, content{Type: "text/plain", Value: t})
	}
	if h := strings.TrimSpace(m.HTML); h != "" {
		parts = append(parts, content{Type: "text/html", Value: h})
	}
	if len(parts) == 0 {
		return fmt.Errorf("sendgrid: text or html content required")
	}

	wire := mailSendRequest{
		Personalizations: []personalization{{To: []address{{Email: m.To}}}},
		From:             address{Email: m.From},
		Subject:          m.Subject,
		Content:          parts,
	}
	if m.Category != "" {
		wire.Categories = []string{m.Category}
	}

	backoff := 1 * time.Second
	for attempt := 0; ; attempt++ {
		resp, err := c.sendOnce(ctx, wire)
		if err == nil {
			return nil
		}
		if !httpx.IsRetryableResponse(err) || attempt >= c.maxRetries {
			return err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warnw("sendgrid request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return err
		}
		backoff *= 2
	}
}

func (c *sendgrid) sendOnce(ctx context.Context, wire mailSendRequest) (*http.Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/mail/send", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

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
		he := &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}

		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && len(er.Errors) > 0 {
			he.Errors = er.Errors
		}
		return resp, he
	}

	return resp, nil
}
