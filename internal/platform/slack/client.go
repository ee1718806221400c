// Package slack posts messages to an incoming-webhook URL, either as plain
// text or as Block Kit blocks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Text is a Block Kit text object.
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Block is one Block Kit block. Fields are set depending on Type.
type Block struct {
	Type string `json:"type"`
	Text *Text  `json:"text,omitempty"`
}

// Header builds a header block with plain text.
func Header(text string) Block {
	return Block{Type: "header", Text: &Text{Type: "plain_text", Text: text}}
}

// Section builds a section block with mrkdwn text.
func Section(text string) Block {
	return Block{Type: "section", Text: &Text{Type: "mrkdwn", Text: text}}
}

// Divider builds a divider block.
func Divider() Block {
	return Block{Type: "divider"}
}

// Client posts JSON payloads to a webhook URL.
type Client struct {
	webhookURL string
	httpClient HTTPClient
}

// New creates a webhook client.
func New(httpClient HTTPClient, webhookURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{webhookURL: webhookURL, httpClient: httpClient}
}

// PostText sends a plain-text message.
func (c *Client) PostText(ctx context.Context, text string) error {
	return c.post(ctx, map[string]any{"text": text})
}

// PostBlocks sends a Block Kit message.
func (c *Client) PostBlocks(ctx context.Context, blocks []Block) error {
	return c.post(ctx, map[string]any{"blocks": blocks})
}

func (c *Client) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
