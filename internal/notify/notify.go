// Package notify delivers crisis escalation alerts to an on-call contact via
// Twilio SMS. Notification is strictly fire-and-forget: a delivery failure
// must never change the reply a user in crisis receives.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Alert describes one crisis escalation event.
type Alert struct {
	UserID     string
	Level      string
	Categories []string
	OccurredAt time.Time
}

// Notifier delivers crisis alerts.
type Notifier interface {
	NotifyCrisis(ctx context.Context, alert Alert) error
}

// Opts holds configuration options for the Twilio notifier.
type Opts struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
}

// Option defines a configuration option for the Twilio notifier.
type Option func(*Opts)

// WithAccountSID sets the Twilio account SID.
func WithAccountSID(sid string) Option {
	return func(o *Opts) { o.AccountSID = sid }
}

// WithAuthToken sets the Twilio auth token.
func WithAuthToken(token string) Option {
	return func(o *Opts) { o.AuthToken = token }
}

// WithFrom sets the sending phone number.
func WithFrom(from string) Option {
	return func(o *Opts) { o.From = from }
}

// WithTo sets the on-call phone number that receives alerts.
func WithTo(to string) Option {
	return func(o *Opts) { o.To = to }
}

// TwilioNotifier sends crisis alerts as SMS via the Twilio REST API.
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
	to     string
}

// NewTwilioNotifier creates a Twilio-backed notifier. Options fall back to
// the TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM_NUMBER and
// CRISIS_ALERT_NUMBER environment variables.
func NewTwilioNotifier(opts ...Option) (*TwilioNotifier, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.AccountSID == "" {
		cfg.AccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	}
	if cfg.AuthToken == "" {
		cfg.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	}
	if cfg.From == "" {
		cfg.From = os.Getenv("TWILIO_FROM_NUMBER")
	}
	if cfg.To == "" {
		cfg.To = os.Getenv("CRISIS_ALERT_NUMBER")
	}
	slog.Debug("Twilio notifier config loaded",
		"AccountSID_set", cfg.AccountSID != "",
		"AuthToken_set", cfg.AuthToken != "",
		"From_set", cfg.From != "",
		"To_set", cfg.To != "")

	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("account SID and auth token must be provided")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, fmt.Errorf("from and to numbers must be provided")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioNotifier{client: client, from: cfg.From, to: cfg.To}, nil
}

// NotifyCrisis sends the alert SMS. The message carries only the opaque user
// id and risk level, never the user's message text.
func (n *TwilioNotifier) NotifyCrisis(ctx context.Context, alert Alert) error {
	body := fmt.Sprintf("Crisis alert: user %s screened %s risk (%v) at %s",
		alert.UserID, alert.Level, alert.Categories, alert.OccurredAt.Format(time.RFC3339))

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(body)

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		slog.Error("Twilio crisis alert failed", "userID", alert.UserID, "error", err)
		return fmt.Errorf("failed to send crisis alert: %w", err)
	}
	slog.Debug("Twilio crisis alert sent", "userID", alert.UserID, "level", alert.Level)
	return nil
}

// MockNotifier records alerts in memory for tests.
type MockNotifier struct {
	mu     sync.Mutex
	alerts []Alert
	// Err, when set, is returned from NotifyCrisis to simulate delivery
	// failure.
	Err error
}

// NewMockNotifier creates an empty mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// NotifyCrisis records the alert.
func (m *MockNotifier) NotifyCrisis(_ context.Context, alert Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.alerts = append(m.alerts, alert)
	return nil
}

// Alerts returns a copy of the recorded alerts.
func (m *MockNotifier) Alerts() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Alert(nil), m.alerts...)
}
