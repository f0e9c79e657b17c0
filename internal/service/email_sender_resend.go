package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ResendEmailSender delivers password-reset emails through Resend. With
// no API key configured it reports itself unusable rather than silently
// dropping mail.
type ResendEmailSender struct {
	client     *resend.Client
	From       string
	AppBaseURL string
	ResetPath  string
}

func NewResendEmailSender(apiKey string, from string, appBaseURL string) *ResendEmailSender {
	sender := &ResendEmailSender{
		From:       from,
		AppBaseURL: strings.TrimRight(appBaseURL, "/"),
		ResetPath:  "/reset-password",
	}
	if strings.TrimSpace(apiKey) != "" {
		sender.client = resend.NewClient(apiKey)
	}
	return sender
}

func (s *ResendEmailSender) SendPasswordResetEmail(ctx context.Context, email string, token string) error {
	if s.client == nil || strings.TrimSpace(s.From) == "" {
		return errors.New("email sender not configured")
	}

	link := s.buildURL(s.ResetPath, token)
	params := &resend.SendEmailRequest{
		From:    s.From,
		To:      []string{email},
		Subject: "Reset your password",
		Html:    fmt.Sprintf("<p>Click to reset your password:</p><p><a href=%q>Reset Password</a></p>", link),
		Text:    fmt.Sprintf("Reset your password: %s", link),
	}
	_, err := s.client.Emails.Send(params)
	return err
}

func (s *ResendEmailSender) buildURL(path string, token string) string {
	if s.AppBaseURL == "" {
		return token
	}
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("%s%s?token=%s", s.AppBaseURL, path, token)
}
