package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/brandmonitor/brandmonitor/internal/config"
	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Notifier delivers monitoring digests.
type Notifier interface {
	SendDigest(digest *models.Digest) error
}

// Service sends digests over the configured channels: a generic JSON webhook
// and/or SMTP email. Both are optional; with neither configured SendDigest is
// a no-op.
type Service struct {
	config *config.Config
	client *resty.Client
}

var _ Notifier = (*Service)(nil)

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendDigest delivers the digest on every configured channel, aggregating
// per-channel failures.
func (s *Service) SendDigest(digest *models.Digest) error {
	var errs []string

	if s.config.WebhookURL != "" {
		if err := s.sendWebhook(digest); err != nil {
			logrus.Errorf("Failed to send webhook notification: %v", err)
			errs = append(errs, fmt.Sprintf("webhook: %v", err))
		} else {
			logrus.Info("Successfully sent digest to webhook")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(digest); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errs = append(errs, fmt.Sprintf("email: %v", err))
		} else {
			logrus.Info("Successfully sent digest via email")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func (s *Service) sendWebhook(digest *models.Digest) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(digest).
		Post(s.config.WebhookURL)

	if err != nil {
		return fmt.Errorf("failed to post digest: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

var emailTemplate = template.Must(template.New("digest").Parse(`
<h2>Brand Monitor digest ({{.Period}})</h2>
<p>Found <strong>{{.TotalMentions}}</strong> mentions for {{.UserEmail}}
across keywords: {{range $i, $k := .Keywords}}{{if $i}}, {{end}}{{$k}}{{end}}.</p>

<h3>By platform</h3>
<ul>
{{range $platform, $count := .ByPlatform}}<li>{{$platform}}: {{$count}}</li>
{{end}}</ul>

<h3>By sentiment</h3>
<ul>
{{range $sentiment, $count := .BySentiment}}<li>{{$sentiment}}: {{$count}}</li>
{{end}}</ul>

<h3>Recent mentions</h3>
<ul>
{{range .Mentions}}<li><strong>{{.Author}}</strong> ({{.Platform}}, {{.Sentiment}}): {{.Content}}</li>
{{end}}</ul>
`))

func (s *Service) sendEmail(digest *models.Digest) error {
	var body bytes.Buffer

	// Cap the inline mention list; the full set is in the archive.
	trimmed := *digest
	if len(trimmed.Mentions) > 20 {
		trimmed.Mentions = trimmed.Mentions[:20]
	}

	if err := emailTemplate.Execute(&body, &trimmed); err != nil {
		return fmt.Errorf("failed to render digest email: %w", err)
	}

	message := gomail.NewMessage()
	message.SetHeader("From", s.config.SMTPUsername)
	message.SetHeader("To", s.config.NotificationEmail)
	message.SetHeader("Subject", fmt.Sprintf("Brand Monitor digest (%d mentions)", digest.TotalMentions))
	message.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
