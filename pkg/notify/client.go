// Package notify is a GraphQL client for the notification service.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "http://localhost:5025/graphql"

// NotificationType grades the urgency of a notification.
type NotificationType string

const (
	TypeInfo    NotificationType = "INFO"
	TypeWarning NotificationType = "WARNING"
)

// Notification is a message to deliver to a user.
type Notification struct {
	UserID  string           `json:"userId"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
}

// Ack is the delivery acknowledgment returned by the service.
type Ack struct {
	ID string `json:"id"`
}

// Client delivers notifications.
type Client interface {
	Send(ctx context.Context, n Notification) (*Ack, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default notification service URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a notification client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

const createNotificationMutation = `
mutation CreateNotification($input: CreateNotificationInput!) {
  createNotification(input: $input) {
    id
    title
    message
    type
    read
  }
}`

func (c *httpClient) Send(ctx context.Context, n Notification) (*Ack, error) {
	if n.Type == "" {
		n.Type = TypeInfo
	}

	payload := map[string]any{
		"query": createNotificationMutation,
		"variables": map[string]any{
			"input": n,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "notify: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "notify: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "notify: send")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "notify: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("notify: status %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded struct {
		Data struct {
			CreateNotification Ack `json:"createNotification"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, eris.Wrap(err, "notify: decode response")
	}

	if len(decoded.Errors) > 0 {
		msgs := make([]string, len(decoded.Errors))
		for i, e := range decoded.Errors {
			msgs[i] = e.Message
		}
		return nil, eris.New(fmt.Sprintf("notify: graphql errors: %s", strings.Join(msgs, "; ")))
	}

	return &decoded.Data.CreateNotification, nil
}
