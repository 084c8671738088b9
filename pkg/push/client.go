package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sooyeonjun/giftpool-backend/pkg/config"
	"github.com/sooyeonjun/giftpool-backend/pkg/logger"
)

// Message is the payload delivered to a single device token.
type Message struct {
	Token string
	Title string
	Body  string
}

// Sender delivers push messages. Delivery is best-effort; callers must not
// treat a send failure as a request failure.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client talks to the FCM HTTP endpoint using a server key.
type Client struct {
	endpoint  string
	serverKey string
	enabled   bool
	http      *http.Client
	logg      *logger.Logger
}

type fcmPayload struct {
	To   string  `json:"to"`
	Data fcmData `json:"data"`
}

type fcmData struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NewClient builds a push client. When the feature is disabled the client
// logs sends instead of performing them, which keeps dev environments quiet.
func NewClient(cfg config.PushConfig, logg *logger.Logger) (*Client, error) {
	if cfg.Enabled && strings.TrimSpace(cfg.ServerKey) == "" {
		return nil, fmt.Errorf("push server key is required when push is enabled")
	}
	return &Client{
		endpoint:  cfg.Endpoint,
		serverKey: cfg.ServerKey,
		enabled:   cfg.Enabled,
		http:      &http.Client{Timeout: cfg.Timeout},
		logg:      logg,
	}, nil
}

// Send posts the message to the push endpoint.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.Token == "" {
		return fmt.Errorf("device token is required")
	}

	if !c.enabled {
		if c.logg != nil {
			ctx = c.logg.WithFields(ctx, map[string]any{"title": msg.Title})
			c.logg.Info(ctx, "push disabled, skipping send")
		}
		return nil
	}

	body, err := json.Marshal(fcmPayload{
		To:   msg.Token,
		Data: fcmData{Title: msg.Title, Body: msg.Body},
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push endpoint returned %d", resp.StatusCode)
	}
	return nil
}
