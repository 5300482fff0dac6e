// Package mail delivers password-reset OTP messages. Delivery tries SMTP
// first and falls back to an HTTP mail provider when one is configured;
// only a failure of the whole chain is reported.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/canova-hq/canova-server/config"
	"github.com/canova-hq/canova-server/log"
	"github.com/canova-hq/canova-server/model"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendOTP(ctx context.Context, to, otp string) error
}

type Sender struct {
	cfg    config.Config
	client *http.Client
}

func NewSender(cfg config.Config) *Sender {
	return &Sender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Sender) SendOTP(ctx context.Context, to, otp string) error {
	subject := "CANOVA - Password Reset OTP"
	body := otpBody(otp)

	if err := s.sendSMTP(to, subject, body); err == nil {
		return nil
	} else {
		log.Warnf("mail.smtp: %s", err)
	}

	if s.cfg.MailAPIURL == "" {
		return model.Unavailable("Email delivery unavailable")
	}
	if err := s.sendHTTP(ctx, to, subject, body); err != nil {
		log.Warnf("mail.http: %s", err)
		return model.Unavailable("Email delivery unavailable")
	}
	return nil
}

func (s *Sender) sendSMTP(to, subject, body string) error {
	if s.cfg.SMTPUser == "" || s.cfg.SMTPPass == "" {
		return fmt.Errorf("missing credentials")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.MailFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	return d.DialAndSend(m)
}

func (s *Sender) sendHTTP(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(map[string]any{
		"from":    s.cfg.MailFrom,
		"to":      []string{to},
		"subject": subject,
		"html":    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.MailAPIURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.MailAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned %s", resp.Status)
	}
	return nil
}

func otpBody(otp string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<div style="background: #42aaf5; padding: 20px; border-radius: 10px; text-align: center;">
				<h1 style="color: white; margin: 0;">CANOVA</h1>
			</div>
			<div style="padding: 30px 20px; background: #f9f9f9;">
				<h2 style="color: #333; margin-top: 0;">Password Reset OTP</h2>
				<p style="color: #666;">You requested to reset your password. Use the code below:</p>
				<div style="background: #42aaf5; color: white; font-size: 24px; font-weight: bold; padding: 20px; border-radius: 8px; letter-spacing: 3px;">%s</div>
				<p style="color: #666; font-size: 14px;">This OTP will expire in 10 minutes.</p>
				<p style="color: #666; font-size: 14px;">If you didn't request this, please ignore this email.</p>
			</div>
		</div>`, otp)
}
