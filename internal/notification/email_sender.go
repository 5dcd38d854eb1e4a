package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// EmailSender posts messages to a Resend-compatible HTTP email API.
type EmailSender struct {
	client *http.Client
	apiURL string
	apiKey string
	from   string
}

func NewEmailSender(client *http.Client, apiURL, apiKey, from string) *EmailSender {
	if client == nil {
		client = &http.Client{}
	}
	return &EmailSender{client: client, apiURL: apiURL, apiKey: apiKey, from: from}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

type emailResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (s *EmailSender) Send(ctx context.Context, msg Message) (string, error) {
	if msg.To == "" || msg.Subject == "" {
		return "", fmt.Errorf("email requires recipient and subject")
	}

	html, text := msg.HTML, msg.Text
	if html == "" {
		html = text
	}
	if text == "" {
		text = html
	}

	body, err := json.Marshal(emailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return "", fmt.Errorf("encoding email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling email API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading email API response: %w", err)
	}

	var decoded emailResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// error bodies are optional; the status alone is enough
		if decodeErr == nil && decoded.Message != "" {
			return "", fmt.Errorf("email API returned %d: %s", resp.StatusCode, decoded.Message)
		}
		return "", fmt.Errorf("email API returned %d", resp.StatusCode)
	}

	if decodeErr != nil {
		return "", fmt.Errorf("decoding email API response: %w", decodeErr)
	}
	if decoded.ID == "" {
		return "", fmt.Errorf("email API response has no message id")
	}
	return decoded.ID, nil
}
