package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rgdevment/service-report/internal/domain"
	"github.com/rgdevment/service-report/internal/service"
)

type webhookClient struct {
	url  string
	http *http.Client
}

// NewWebhookClient posts each payload as JSON to url. A nil client gets a
// default one with timeout.
func NewWebhookClient(url string, client *http.Client, timeout time.Duration) service.Sender {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &webhookClient{
		url:  url,
		http: client,
	}
}

func (c *webhookClient) Send(ctx context.Context, payload domain.NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("relay: failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return &service.DispatchError{Reason: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &service.DispatchError{Reason: err.Error(), Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &service.DispatchError{
			Reason: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}
	return nil
}
