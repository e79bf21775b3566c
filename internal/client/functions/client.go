// Package functions invokes named remote functions hosted by the backend
// platform, such as the reminder mailer.
package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// InvokeError reports a function that answered with a non-2xx status.
type InvokeError struct {
	Function   string
	StatusCode int
	Body       string
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("function %s returned %d: %s", e.Function, e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *logrus.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Invoke posts payload as JSON to the named function and waits for its answer.
func (c *Client) Invoke(ctx context.Context, name string, payload any) error {
	logEntry := c.logger.WithFields(logrus.Fields{
		"component": "functions_client",
		"function":  name,
	})

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/functions/v1/"+name, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	logEntry.Debug("invoking function")

	resp, err := c.http.Do(req)
	if err != nil {
		logEntry.WithError(err).Error("function unreachable")
		return fmt.Errorf("invoke %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logEntry.WithField("status", resp.StatusCode).Warn("function returned an error")
		return &InvokeError{Function: name, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	logEntry.WithField("status", resp.StatusCode).Debug("function invoked")
	return nil
}
