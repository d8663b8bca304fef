package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Discord embed colors
const (
	ColorGreen = 0x2ecc71
	ColorRed   = 0xe74c3c
	ColorBlue  = 0x3498db
)

// WebhookMessage is the body of a Discord webhook call
type WebhookMessage struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Image       *EmbedImage  `json:"image,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedImage struct {
	URL string `json:"url"`
}

// Discord posts messages to webhook URLs
type Discord struct {
	client *http.Client
}

func NewDiscord(timeout time.Duration) *Discord {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Discord{client: &http.Client{Timeout: timeout}}
}

// Send posts msg to url. An empty url is a no-op.
func (d *Discord) Send(ctx context.Context, url string, msg WebhookMessage) error {
	if url == "" {
		return nil
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned %d", resp.StatusCode)
	}
	return nil
}
