package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rdfernandes/connwatch/internal/models"
)

const webhookTimeout = 10 * time.Second

// WebhookNotifier POSTs state changes as JSON to an HTTP endpoint.
type WebhookNotifier struct {
	name   string
	url    string
	client *http.Client
}

// NewWebhookNotifier configures a webhook notifier.
func NewWebhookNotifier(name, url string) *WebhookNotifier {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if name == "" {
		name = url
	}
	return &WebhookNotifier{
		name:   name,
		url:    url,
		client: &http.Client{Transport: transport, Timeout: webhookTimeout},
	}
}

// Name identifies the notifier in logs.
func (n *WebhookNotifier) Name() string { return "webhook:" + n.name }

// Notify posts the state change.
func (n *WebhookNotifier) Notify(ctx context.Context, change models.StateChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode state change: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook %s returned %s", n.name, resp.Status)
	}
	return nil
}
