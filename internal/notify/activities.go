package notify

import (
	"context"
	"fmt"

	"github.com/avdonin/orderhub-backend/internal/observability/metrics"
)

// Activities holds the email-sending activities executed by workers.
type Activities struct {
	mailer Mailer
}

func NewActivities(mailer Mailer) *Activities {
	return &Activities{mailer: mailer}
}

func (a *Activities) SendActivationEmail(ctx context.Context, in ActivationEmail) error {
	body := fmt.Sprintf("Welcome! Confirm your registration with this token:\n\n%s\n", in.Token)
	return a.send(ctx, "activation", in.Email, "Confirm your registration", body)
}

func (a *Activities) SendResetEmail(ctx context.Context, in ResetEmail) error {
	subject := fmt.Sprintf("Password Reset Token for %s", in.Who)
	return a.send(ctx, "reset", in.Email, subject, in.Token)
}

func (a *Activities) SendOrderEmail(ctx context.Context, in OrderEmail) error {
	return a.send(ctx, "order", in.Email, "Order status update", "Order complete")
}

func (a *Activities) send(ctx context.Context, kind, to, subject, body string) error {
	if err := a.mailer.Send(ctx, to, subject, body); err != nil {
		metrics.EmailsSentTotal.WithLabelValues(kind, "error").Inc()
		return err
	}
	metrics.EmailsSentTotal.WithLabelValues(kind, "ok").Inc()
	return nil
}
