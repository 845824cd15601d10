package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ravesdeleste/PluginPitch/domain"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoServiceImpl implements domain.NotificationService over Brevo's
// transactional email REST API
type BrevoServiceImpl struct {
	httpClient  *http.Client
	endpoint    string
	apiKey      string
	senderName  string
	senderEmail string
}

// NewBrevoService creates a new Brevo notification service
func NewBrevoService(apiKey, senderName, senderEmail string) domain.NotificationService {
	return &BrevoServiceImpl{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		endpoint:    brevoEndpoint,
		apiKey:      apiKey,
		senderName:  senderName,
		senderEmail: senderEmail,
	}
}

type brevoSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type brevoRecipient struct {
	Email string `json:"email"`
}

type brevoMessage struct {
	Sender      brevoSender      `json:"sender"`
	To          []brevoRecipient `json:"to"`
	Subject     string           `json:"subject"`
	HTMLContent string           `json:"htmlContent"`
}

// SendEmail implements domain.NotificationService
func (b *BrevoServiceImpl) SendEmail(to, subject, body string) error {
	// If credentials are not configured, log instead of sending
	if b.apiKey == "" {
		fmt.Printf("[MOCK EMAIL] To: %s, Subject: %s, Body: %s\n", to, subject, body)
		return nil
	}

	payload, err := json.Marshal(brevoMessage{
		Sender:      brevoSender{Name: b.senderName, Email: b.senderEmail},
		To:          []brevoRecipient{{Email: to}},
		Subject:     subject,
		HTMLContent: body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, string(msg))
	}

	return nil
}

// SendSMS implements domain.NotificationService. Brevo is email-only here.
func (b *BrevoServiceImpl) SendSMS(to, message string) error {
	fmt.Printf("[MOCK SMS] To: %s, Message: %s\n", to, message)
	return nil
}

var _ domain.NotificationService = (*BrevoServiceImpl)(nil)
