// Package sms sends text messages through the Africa's Talking gateway.
package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"matatubook/pkg/utils"

	"go.uber.org/zap"
)

const (
	sandboxURL    = "https://api.sandbox.africastalking.com/version1/messaging"
	productionURL = "https://api.africastalking.com/version1/messaging"
)

type Client struct {
	cfg    utils.SMSConfig
	apiURL string
	http   *http.Client
	log    *zap.Logger
}

func NewClient(cfg utils.SMSConfig, log *zap.Logger) *Client {
	apiURL := sandboxURL
	if cfg.Username != "sandbox" {
		apiURL = productionURL
	}

	return &Client{
		cfg:    cfg,
		apiURL: apiURL,
		http:   &http.Client{Timeout: 30 * time.Second},
		log:    log.With(zap.String("client", "sms")),
	}
}

// Send delivers one message and returns the raw gateway response body for the
// SMS audit log. Single attempt, no retries.
func (c *Client) Send(ctx context.Context, phone, message string) (string, error) {
	form := url.Values{}
	form.Set("username", c.cfg.Username)
	form.Set("to", "+"+utils.NormalizePhone(phone))
	form.Set("message", message)
	if c.cfg.SenderID != "" {
		form.Set("from", c.cfg.SenderID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("apiKey", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("read sms response: %w", err)
	}
	response := string(body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Warn("SMS gateway rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("phone", phone),
		)
		return response, fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return response, nil
}
