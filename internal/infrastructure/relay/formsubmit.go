package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/config"
	"swadesh-intern/internal/logging"
)

var (
	ErrNotConfigured = errors.New("contact inbox not configured")
	ErrRejected      = errors.New("relay rejected message")
)

type Message struct {
	Name    string
	Email   string
	Body    string
	Subject string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// FormSubmitClient forwards contact messages through the FormSubmit AJAX
// endpoint, which mails them to the configured inbox.
type FormSubmitClient struct {
	baseURL string
	inbox   string
	client  *http.Client
	logger  logrus.FieldLogger
}

type formSubmitResponse struct {
	Success json.RawMessage `json:"success"`
	Message string          `json:"message"`
}

func NewFormSubmitClient(cfg config.RelayConfig, logger logrus.FieldLogger) *FormSubmitClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FormSubmitClient{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		inbox:   strings.TrimSpace(cfg.Inbox),
		client:  &http.Client{Timeout: timeout},
		logger:  logging.OrDiscard(logger),
	}
}

func (c *FormSubmitClient) Send(ctx context.Context, m Message) error {
	if c == nil || c.client == nil {
		return errors.New("nil relay client")
	}
	if c.inbox == "" {
		return ErrNotConfigured
	}

	subject := m.Subject
	if subject == "" {
		subject = "New Contact Message"
	}
	payload := map[string]string{
		"name":      m.Name,
		"email":     m.Email,
		"message":   m.Body,
		"_subject":  subject,
		"_template": "table",
		"_captcha":  "false",
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + "/" + url.PathEscape(c.inbox)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	bodyStr := strings.TrimSpace(string(rb))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{"status": resp.StatusCode, "body": bodyStr}).Warn("formsubmit relay failed")
		return fmt.Errorf("%w: status=%d", ErrRejected, resp.StatusCode)
	}

	var out formSubmitResponse
	if err := json.Unmarshal(rb, &out); err == nil && len(out.Success) > 0 {
		// success arrives as either a bool or the string "true".
		s := strings.Trim(string(out.Success), `"`)
		if s == "false" {
			c.logger.WithField("message", out.Message).Warn("formsubmit relay refused message")
			return fmt.Errorf("%w: %s", ErrRejected, out.Message)
		}
	}
	c.logger.Info("contact message relayed")
	return nil
}

var _ Sender = (*FormSubmitClient)(nil)
