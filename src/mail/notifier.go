package mail

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"fintrack-server/src/util"
)

// Notifier renders emails and hands them to the email provider's webhook as a
// signed JSON payload. Delivery itself is the provider's problem.
type Notifier struct {
	webhookURL string
	secret     string
}

func NewNotifier(webhookURL, secret string) *Notifier {
	return &Notifier{webhookURL: webhookURL, secret: secret}
}

// Enabled reports whether a provider webhook is configured. Without one,
// notifications are logged and dropped.
func (n *Notifier) Enabled() bool {
	return n.webhookURL != ""
}

type outboundEmail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// SendAlertTriggered renders and delivers a triggered-alert email.
func (n *Notifier) SendAlertTriggered(ctx context.Context, to string, data AlertTriggeredEmail) error {
	subject, body, err := RenderAlertTriggered(data)
	if err != nil {
		return err
	}
	return n.send(ctx, to, subject, body)
}

// SendWeeklySummary renders and delivers the weekly digest email.
func (n *Notifier) SendWeeklySummary(ctx context.Context, to string, data WeeklySummaryEmail) error {
	subject, body, err := RenderWeeklySummary(data)
	if err != nil {
		return err
	}
	return n.send(ctx, to, subject, body)
}

func (n *Notifier) send(ctx context.Context, to, subject, body string) error {
	if !n.Enabled() {
		log.Info().Str("to", to).Str("subject", subject).Msg("email provider not configured, dropping notification")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return util.PostSignedWebhook(ctx, n.webhookURL, n.secret, outboundEmail{
		To:      to,
		Subject: subject,
		HTML:    body,
	})
}
