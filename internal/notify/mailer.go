package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
)

type sender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// Mailer sends admin alerts and digests through SendGrid.
type Mailer struct {
	client    sender
	fromEmail string
	fromName  string
	to        string

	inflight sync.WaitGroup
}

func NewMailer(apiKey, fromEmail, fromName, to string) *Mailer {
	return &Mailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		to:        to,
	}
}

func (s *Mailer) SendEmail(subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", s.to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "Send", "subject", subject)
	response, err := s.client.Send(message)
	if err != nil {
		err = fmt.Errorf("failed to send email: %w", err)
	} else if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err)
	return err
}

// Notify mails error notifications only; success toasts stay in the UI.
// The mail is sent in the background and Notify returns at once.
func (s *Mailer) Notify(ctx context.Context, n domain.Notification) {
	if n.Kind != domain.NotificationError {
		return
	}
	subject := "FarmEquip admin alert"
	if n.Screen != "" {
		subject = fmt.Sprintf("FarmEquip admin alert: %s", n.Screen)
	}
	body := fmt.Sprintf("%s\n\nReported at %s.", n.Message, n.CreatedOn.UTC().Format("2006-01-02 15:04:05 MST"))

	ctx = context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if err := s.SendEmail(subject, body, ""); err != nil {
			logger.WarnContext(ctx, "Admin alert not delivered", "error", err)
		}
	}()
}

// Wait blocks until every alert started by Notify has been handed to
// SendGrid.
func (s *Mailer) Wait() {
	s.inflight.Wait()
}

// SendDigest mails the dashboard summary.
func (s *Mailer) SendDigest(m domain.DashboardMetrics) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Equipment listed: %d\n", m.TotalEquipment)
	fmt.Fprintf(&b, "Pending bookings: %d\n", m.PendingBookings)
	fmt.Fprintf(&b, "Active bookings: %d\n", m.ActiveBookings)
	fmt.Fprintf(&b, "Revenue (paid): %s\n", m.TotalRevenue.StringFixed(2))
	fmt.Fprintf(&b, "Farmers: %d\n", m.TotalFarmers)
	if len(m.RecentBookings) > 0 {
		b.WriteString("\nRecent bookings:\n")
		for _, bk := range m.RecentBookings {
			fmt.Fprintf(&b, "  %s  %s  %s  %s\n", bk.ID, bk.CreatedAt, bk.EquipmentName, bk.Status)
		}
	}
	return s.SendEmail("FarmEquip daily digest", b.String(), "")
}
