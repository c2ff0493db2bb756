// Package mailer delivers verification and password-reset mail through an
// HTTP mail API. When no endpoint is configured, outbound messages are
// written to the log instead so the authentication flows stay usable in
// development.
package mailer

import (
	"context"

	"github.com/eriktmidtun/secfit-auth/internal/config"
	"github.com/eriktmidtun/secfit-auth/internal/logger"
)

// Mailer sends a single outbound message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New selects the mailer implementation from configuration: the HTTP
// gateway when an endpoint is set, the log fallback otherwise.
func New(cfg config.Mailer, log *logger.Logger) Mailer {
	if cfg.Endpoint == "" {
		log.Warn().Msg("no mail endpoint configured, outbound mail will be logged only")
		return NewLogMailer(log)
	}

	return NewHTTPMailer(cfg, log)
}
