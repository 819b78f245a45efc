package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const senderTimeout = 10 * time.Second

// EmailSender delivers passcodes through a JSON-over-HTTP email provider.
type EmailSender struct {
	client *http.Client
	apiURL string
	apiKey string
	from   string
}

// NewEmailSender builds a provider-backed sender.
func NewEmailSender(apiURL, apiKey, from string) *EmailSender {
	return &EmailSender{
		client: &http.Client{Timeout: senderTimeout},
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
	}
}

type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// SendCode posts the templated passcode message to the provider.
func (s *EmailSender) SendCode(ctx context.Context, destination, code string) error {
	payload := emailPayload{
		From:    s.from,
		To:      []string{destination},
		Subject: "Your verification code",
		Text: fmt.Sprintf(
			"Your one-time verification code is %s. It expires in 10 minutes. "+
				"If you did not request this code, please contact investor relations.",
			code,
		),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("send email: provider returned %d", resp.StatusCode)
	}
	return nil
}

// LogSender is the no-provider fallback: the code only reaches the
// application log. Used in development and whenever no API key is set.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendCode(_ context.Context, destination, code string) error {
	s.log.Info().
		Str("destination", destination).
		Str("code", code).
		Msg("passcode delivery (log-only sender)")
	return nil
}
