package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/apperr"
)

const contactColor = 0x55ff77

// ContactForm is a message submitted through the site's contact form.
type ContactForm struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Content string `json:"content"`
}

// Validate checks that every field is present and bounded.
func (f ContactForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&f.Contact, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&f.Content, validation.Required, validation.RuneLength(1, 3500)),
	)
}

type embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       uint32 `json:"color"`
}

type webhookMessage struct {
	Username string  `json:"username"`
	Content  *string `json:"content"`
	Embeds   []embed `json:"embeds"`
}

// escapeCode breaks up backticks so user input cannot close the code spans
// it is wrapped in.
func escapeCode(s string) string {
	return strings.ReplaceAll(s, "`", "`\u200b")
}

func contactMessage(f ContactForm) webhookMessage {
	return webhookMessage{
		Username: "Website Message",
		Embeds: []embed{{
			Title: "Contact Form",
			Description: fmt.Sprintf("From ``%s``\nContact: ``%s``\n```\n%s\n```",
				escapeCode(f.Name), escapeCode(f.Contact), escapeCode(f.Content)),
			Color: contactColor,
		}},
	}
}

// Notifier relays contact form submissions to a chat webhook.
type Notifier struct {
	webhookURL string
	http       *http.Client
}

// NewNotifier creates a Notifier posting to webhookURL.
func NewNotifier(webhookURL string, timeout time.Duration) *Notifier {
	return &Notifier{webhookURL: webhookURL, http: &http.Client{Timeout: timeout}}
}

// Send validates f and posts it to the webhook.
func (n *Notifier) Send(ctx context.Context, f ContactForm) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	body, err := json.Marshal(contactMessage(f))
	if err != nil {
		return fmt.Errorf("site: encode webhook message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("site: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: webhook: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: webhook status %d", apperr.ErrUpstream, resp.StatusCode)
	}
	return nil
}
