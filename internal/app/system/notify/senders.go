// internal/app/system/notify/senders.go
package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/orkestra-ventures/orkestra/internal/app/system/mailer"
	"go.uber.org/zap"
)

// WebhookPayload is the JSON body posted to the owner webhook.
type WebhookPayload struct {
	Kind      string            `json:"kind"`
	Resource  string            `json:"resource"`
	ID        int64             `json:"id"`
	Fields    map[string]string `json:"fields"`
	Text      string            `json:"text,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// WebhookSender posts each message as JSON. The client retries transient
// failures on its own.
type WebhookSender struct {
	client *resty.Client
	url    string
}

func NewWebhookSender(url string, timeout time.Duration) *WebhookSender {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &WebhookSender{client: client, url: url}
}

// WithRetry overrides the retry policy.
func (s *WebhookSender) WithRetry(count int, wait, maxWait time.Duration) *WebhookSender {
	s.client.SetRetryCount(count).SetRetryWaitTime(wait).SetRetryMaxWaitTime(maxWait)
	return s
}

func (s *WebhookSender) Name() string { return "webhook" }

func (s *WebhookSender) Send(ctx context.Context, m Message) error {
	fields := make(map[string]string, len(m.Fields))
	for _, f := range m.Fields {
		fields[f.Label] = f.Value
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(WebhookPayload{
			Kind:      m.Kind,
			Resource:  m.Resource,
			ID:        m.RecordID,
			Fields:    fields,
			Text:      m.Text,
			CreatedAt: m.At,
		}).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned %d", resp.StatusCode())
	}
	return nil
}

// MailSender emails each message to the site owner.
type MailSender struct {
	mailer   *mailer.Mailer
	to       string
	siteName string
	baseURL  string
}

func NewMailSender(m *mailer.Mailer, to, siteName, baseURL string) *MailSender {
	return &MailSender{mailer: m, to: to, siteName: siteName, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *MailSender) Name() string { return "email" }

func (s *MailSender) Send(ctx context.Context, m Message) error {
	var adminURL string
	if s.baseURL != "" {
		adminURL = s.baseURL + "/admin/" + m.Resource + "/" + strconv.FormatInt(m.RecordID, 10)
	}
	e := mailer.BuildSubmissionEmail(mailer.SubmissionEmailData{
		SiteName: s.siteName,
		Kind:     m.Kind,
		Fields:   m.Fields,
		Message:  m.Text,
		AdminURL: adminURL,
	})
	e.To = s.to
	return s.mailer.Send(ctx, e)
}

// LogSender only logs; it is used when no channel is configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender { return &LogSender{logger: logger} }

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(_ context.Context, m Message) error {
	s.logger.Info("owner notification",
		zap.String("kind", m.Kind),
		zap.String("resource", m.Resource),
		zap.Int64("record_id", m.RecordID))
	return nil
}
