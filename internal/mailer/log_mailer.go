package mailer

import (
	"context"

	"github.com/eriktmidtun/secfit-auth/internal/logger"
)

// LogMailer writes outbound mail to the log instead of delivering it.
// Development fallback for environments without a mail API.
type LogMailer struct {
	logger *logger.Logger
}

// NewLogMailer constructs a [LogMailer].
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{logger: log}
}

// Send logs the message and reports success.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("outbound mail (log only)")

	return nil
}
