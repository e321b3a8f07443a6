// Package notify dispatches broadcast push notifications through OneSignal.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const defaultEndpoint = "https://onesignal.com/api/v1/notifications"

type Sender interface {
	// Enabled reports whether a provider credential is configured. Callers
	// skip the dispatch (and report counts only) when it is not.
	Enabled() bool
	// Broadcast sends one notification to all subscribers and returns the
	// provider's notification id.
	Broadcast(ctx context.Context, heading, message string) (string, error)
}

type oneSignalClient struct {
	endpoint   string
	appID      string
	apiKey     string
	httpClient *http.Client
}

// NewOneSignalClient reads ONESIGNAL_APP_ID and ONESIGNAL_REST_API_KEY from
// the environment. ONESIGNAL_ENDPOINT overrides the API URL (used by tests).
func NewOneSignalClient() Sender {
	endpoint := os.Getenv("ONESIGNAL_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &oneSignalClient{
		endpoint:   endpoint,
		appID:      os.Getenv("ONESIGNAL_APP_ID"),
		apiKey:     os.Getenv("ONESIGNAL_REST_API_KEY"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *oneSignalClient) Enabled() bool {
	return c.apiKey != ""
}

type notificationRequest struct {
	AppID            string            `json:"app_id"`
	Contents         map[string]string `json:"contents"`
	Headings         map[string]string `json:"headings"`
	IncludedSegments []string          `json:"included_segments"`
}

type notificationResponse struct {
	ID     string   `json:"id"`
	Errors []string `json:"errors"`
}

func (c *oneSignalClient) Broadcast(ctx context.Context, heading, message string) (string, error) {
	body, err := json.Marshal(notificationRequest{
		AppID:            c.appID,
		Contents:         map[string]string{"en": message, "ar": message},
		Headings:         map[string]string{"en": heading, "ar": heading},
		IncludedSegments: []string{"Total Subscriptions"},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("onesignal: %w", err)
	}
	defer resp.Body.Close()

	var result notificationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("onesignal: decoding response: %w", err)
	}

	if len(result.Errors) > 0 {
		return "", fmt.Errorf("onesignal: %v", result.Errors)
	}

	return result.ID, nil
}
