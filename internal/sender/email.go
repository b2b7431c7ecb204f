package sender

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"audio-mixing-backend/config"

	"go.uber.org/zap"
	gopkgmail "gopkg.in/gomail.v2"
)

// EmailNotification is a decoded message ready for delivery.
type EmailNotification struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

type EmailSender struct {
	cfg *config.NotifierConfig
	log *zap.Logger
}

func NewEmailSender(cfg *config.NotifierConfig, log *zap.Logger) *EmailSender {
	return &EmailSender{cfg: cfg, log: log}
}

// SendEmail renders the html and plain templates and delivers over SMTP. With
// no SMTP host configured it logs the rendered mail and returns nil, so local
// runs work without a mail account.
func (s *EmailSender) SendEmail(n EmailNotification) error {
	htmlBody, err := s.render(n.Template+".html", n.Data)
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	plainBody, err := s.render(n.Template+".txt", n.Data)
	if err != nil {
		return fmt.Errorf("render plain: %w", err)
	}

	if s.cfg.SMTPHost == "" {
		s.log.Info("smtp disabled, logging email instead",
			zap.String("to", n.To),
			zap.String("subject", n.Subject),
			zap.String("template", n.Template),
			zap.String("body", plainBody),
		)
		return nil
	}

	m := gopkgmail.NewMessage()
	m.SetHeader("From", s.cfg.SMTPFrom)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	d := gopkgmail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPassword)
	d.SSL = s.cfg.SMTPPort == 465
	return d.DialAndSend(m)
}

func (s *EmailSender) render(name string, data map[string]any) (string, error) {
	path := filepath.Join(s.cfg.TMPLDir, name)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
