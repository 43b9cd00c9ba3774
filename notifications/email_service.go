package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "github.com/anjiri1684/mentor_connect/configs"
)

const brevoURL = "https://api.brevo.com/v3/smtp/email"

// Email is one transactional message to a single recipient.
type Email struct {
	ToName  string
	ToEmail string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, e Email) error
}

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	URL         string
	Client      *http.Client
}

var EmailClient *BrevoService

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func NewBrevoService(apiKey, senderEmail, senderName string) *BrevoService {
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		URL:         brevoURL,
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// InitEmailService configures the Brevo client and starts the shared
// dispatcher. Without credentials emails are logged and skipped.
func InitEmailService() {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")

	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Println("⚠️ Email service not configured. Missing API Key, Sender Email, or Sender Name.")
		EmailClient = nil
	} else {
		EmailClient = NewBrevoService(apiKey, senderEmail, senderName)
		log.Printf("✅ Email service initialized for sender %s", senderEmail)
	}

	var sender Sender
	if EmailClient != nil {
		sender = EmailClient
	}
	Default = NewDispatcher(sender, 256)
	Default.Start(2)
}

func (s *BrevoService) Send(ctx context.Context, e Email) error {
	if e.ToEmail == "" || !strings.Contains(e.ToEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", e.ToEmail)
	}

	recipientName := e.ToName
	if recipientName == "" {
		recipientName = e.ToEmail[:strings.Index(e.ToEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": e.ToEmail, "name": recipientName}},
		Subject:     e.Subject,
		HTMLContent: e.HTML,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		log.Printf("Brevo API error: Status %d, Body: %s", resp.StatusCode, string(bodyBytes))
		return fmt.Errorf("failed to send email via Brevo: status %d", resp.StatusCode)
	}
	return nil
}

// SendEmail queues an email on the shared dispatcher. It never blocks the caller.
func SendEmail(toName, toEmail, subject, htmlContent string) {
	if Default == nil {
		log.Println("Email dispatcher not initialized, skipping email send.")
		return
	}
	Default.Enqueue(Email{ToName: toName, ToEmail: toEmail, Subject: subject, HTML: htmlContent})
}
