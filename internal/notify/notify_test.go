package notify

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
)

type recorder struct {
	got []domain.Notification
}

func (r *recorder) Notify(ctx context.Context, n domain.Notification) {
	r.got = append(r.got, n)
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{a, nil, b}
	m.Notify(context.Background(), domain.Notification{Message: "Booking approved successfully"})
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger.InitializeWriter(&buf, "info", "text")
	defer logger.Initialize("info", "text")

	NewLogNotifier().Notify(context.Background(), domain.Notification{Kind: domain.NotificationError, Message: "Failed to fetch equipment", Screen: "equipment"})
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "Failed to fetch equipment")
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve("client-1", conn)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	hub.Notify(context.Background(), domain.Notification{ID: "n1", Kind: domain.NotificationSuccess, Message: "Equipment approved successfully"})

	var got domain.Notification
	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, "n1", got.ID)
	assert.Equal(t, "Equipment approved successfully", got.Message)

	client.Close()
	require.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)
}

type fakeSender struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (f *fakeSender) Send(email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status, Body: "body"}, nil
}

type blockingSender struct {
	release chan struct{}
	calls   int
}

func (b *blockingSender) Send(email *mail.SGMailV3) (*rest.Response, error) {
	<-b.release
	b.calls++
	return &rest.Response{StatusCode: 202}, nil
}

func newTestMailer(s sender) *Mailer {
	return &Mailer{client: s, fromEmail: "noreply@farmequip.com", fromName: "FarmEquip", to: "ops@farmequip.com"}
}

func TestMailer(t *testing.T) {
	t.Run("Only errors are mailed", func(t *testing.T) {
		fs := &fakeSender{status: 202}
		m := newTestMailer(fs)
		m.Notify(context.Background(), domain.Notification{Kind: domain.NotificationSuccess, Message: "ok"})
		m.Notify(context.Background(), domain.Notification{Kind: domain.NotificationError, Message: "Failed to approve booking", Screen: "bookings"})
		m.Wait()
		require.Len(t, fs.sent, 1)
		assert.Equal(t, "FarmEquip admin alert: bookings", fs.sent[0].Subject)
		assert.Equal(t, "ops@farmequip.com", fs.sent[0].Personalizations[0].To[0].Address)
	})

	t.Run("Notify does not wait for SendGrid", func(t *testing.T) {
		bs := &blockingSender{release: make(chan struct{})}
		m := newTestMailer(bs)

		done := make(chan struct{})
		go func() {
			m.Notify(context.Background(), domain.Notification{Kind: domain.NotificationError, Message: "Failed to fetch bookings"})
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Notify blocked on a slow mail relay")
		}

		close(bs.release)
		m.Wait()
		assert.Equal(t, 1, bs.calls)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		err := newTestMailer(&fakeSender{status: 401}).SendEmail("s", "b", "")
		assert.ErrorContains(t, err, "status 401")
	})

	t.Run("Transport error", func(t *testing.T) {
		err := newTestMailer(&fakeSender{err: errors.New("dial tcp: timeout")}).SendEmail("s", "b", "")
		assert.ErrorContains(t, err, "failed to send email")
	})

	t.Run("Digest", func(t *testing.T) {
		fs := &fakeSender{status: 202}
		err := newTestMailer(fs).SendDigest(domain.DashboardMetrics{
			TotalEquipment:  5,
			PendingBookings: 2,
			TotalRevenue:    decimal.NewFromInt(1000),
			RecentBookings:  []domain.Booking{{ID: "B1005", CreatedAt: "2023-09-30", Status: domain.BookingStatusPending}},
		})
		require.NoError(t, err)
		require.Len(t, fs.sent, 1)
		body := fs.sent[0].Content[0].Value
		assert.Contains(t, body, "Pending bookings: 2")
		assert.Contains(t, body, "Revenue (paid): 1000.00")
		assert.Contains(t, body, "B1005")
	})
}
