package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/eriktmidtun/secfit-auth/internal/config"
	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/go-resty/resty/v2"
)

// mailRequest is the JSON payload POSTed to the mail API.
type mailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// HTTPMailer sends mail by POSTing to a JSON mail API.
type HTTPMailer struct {
	client *resty.Client
	from   string
	logger *logger.Logger
}

// NewHTTPMailer constructs an [HTTPMailer] from the mail gateway settings.
func NewHTTPMailer(cfg config.Mailer, log *logger.Logger) *HTTPMailer {
	cli := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(15 * time.Second).
		SetAuthToken(cfg.APIKey)

	return &HTTPMailer{
		client: cli,
		from:   cfg.From,
		logger: log,
	}
}

// Send delivers one message through the mail API. Any non-2xx response is
// reported as an error.
func (m *HTTPMailer) Send(ctx context.Context, to, subject, body string) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(mailRequest{
			From:    m.from,
			To:      to,
			Subject: subject,
			Body:    body,
		}).
		Post("")
	if err != nil {
		return fmt.Errorf("mail request: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode())
	}

	m.logger.Info().Str("to", to).Str("subject", subject).Msg("mail dispatched")
	return nil
}
