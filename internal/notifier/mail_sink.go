package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/playmena/stadium-booking/internal/models"
	"github.com/wneessen/go-mail"
)

// UserDirectory resolves a recipient id (player or operator:<stadium>) to an
// email address. Lives with the identity system, out of scope here.
type UserDirectory interface {
	EmailFor(ctx context.Context, userID string) (string, error)
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MailSink sends notification emails over SMTP.
type MailSink struct {
	cfg       MailConfig
	directory UserDirectory
}

func NewMailSink(cfg MailConfig, directory UserDirectory) *MailSink {
	return &MailSink{cfg: cfg, directory: directory}
}

var mailSubjects = map[string]string{
	models.NotifBookingConfirmed: "Your booking is confirmed",
	models.NotifBookingCancelled: "Your booking was cancelled",
	models.NotifBookingExpired:   "Your reservation expired",
	models.NotifRefundIssued:     "Your refund is on its way",
	models.NotifOperatorBooked:   "A slot was booked at your stadium",
	models.NotifOperatorFreed:    "A slot was freed at your stadium",
}

func (s *MailSink) Notify(ctx context.Context, n models.Notification) error {
	to, err := s.directory.EmailFor(ctx, n.UserID)
	if err != nil {
		if errors.Is(err, ErrUnknownRecipient) {
			return nil
		}
		return fmt.Errorf("resolve recipient %s: %w", n.UserID, err)
	}

	subject, ok := mailSubjects[n.Kind]
	if !ok {
		subject = "Stadium booking update"
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, renderBody(n))

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}
	return client.DialAndSend(msg)
}

func renderBody(n models.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\nUpdate on your stadium booking (%s):\n\n", n.Kind)
	b.WriteString(n.Payload)
	b.WriteString("\n\nPlayMENA Team\n")
	return b.String()
}
