package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"ggsc_backend/internal/config"
	"ggsc_backend/internal/model"
	"ggsc_backend/internal/util"
	"ggsc_backend/pkg/monitoring"
	htmltemplate "html/template"
	"sync"
	texttemplate "text/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*
var mailTemplates embed.FS

const registrationSubject = "Registration Successful - Treasure Hunt: Chamber of Secrets"

var ErrMailerDisabled = errors.New("mail host not configured")

// MailSender delivers a composed message. gomail's dialer satisfies it.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type registrationData struct {
	UserName         string
	UserEmail        string
	EnrollmentNumber string
	Department       string
	Year             string
}

type EmailService struct {
	mu     sync.RWMutex
	cfg    config.MailConfig
	sender MailSender

	html *htmltemplate.Template
	text *texttemplate.Template
}

func NewEmailService(cfg config.MailConfig) (*EmailService, error) {
	html, err := htmltemplate.ParseFS(mailTemplates, "templates/registration_success_email.html")
	if err != nil {
		return nil, err
	}
	text, err := texttemplate.ParseFS(mailTemplates, "templates/registration_success_email.txt")
	if err != nil {
		return nil, err
	}
	s := &EmailService{html: html, text: text}
	s.Reconfigure(cfg)
	return s, nil
}

// Reconfigure swaps SMTP settings and the sender identity. An empty host disables sending.
func (s *EmailService) Reconfigure(cfg config.MailConfig) {
	var sender MailSender
	if cfg.Host != "" {
		sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	s.mu.Lock()
	s.cfg = cfg
	s.sender = sender
	s.mu.Unlock()
}

// SetSender overrides the transport, mostly for tests.
func (s *EmailService) SetSender(sender MailSender) {
	s.mu.Lock()
	s.sender = sender
	s.mu.Unlock()
}

func (s *EmailService) current() (config.MailConfig, MailSender) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.sender
}

func (s *EmailService) newMessage(cfg config.MailConfig, to, subject string) *gomail.Message {
	m := gomail.NewMessage()
	from := cfg.FromAddress
	if from == "" {
		from = cfg.Username
	}
	m.SetAddressHeader("From", from, cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	return m
}

func yearDisplay(year int) string {
	return fmt.Sprintf("%d%s Year", year, util.YearSuffix(year))
}

// RenderRegistration returns the text and html bodies for user.
func (s *EmailService) RenderRegistration(user *model.User) (string, string, error) {
	data := registrationData{
		UserName:         user.FullName,
		UserEmail:        user.Email,
		EnrollmentNumber: user.EnrollmentNumber,
		Department:       user.Department,
		Year:             yearDisplay(user.Year),
	}
	var text, html bytes.Buffer
	if err := s.text.Execute(&text, data); err != nil {
		return "", "", err
	}
	if err := s.html.Execute(&html, data); err != nil {
		return "", "", err
	}
	return text.String(), html.String(), nil
}

func (s *EmailService) SendRegistrationEmail(ctx context.Context, user *model.User) error {
	cfg, sender := s.current()
	if sender == nil {
		monitoring.RegistrationEmails.WithLabelValues("disabled").Inc()
		return ErrMailerDisabled
	}

	text, html, err := s.RenderRegistration(user)
	if err != nil {
		monitoring.RegistrationEmails.WithLabelValues("failed").Inc()
		return err
	}

	m := s.newMessage(cfg, user.Email, registrationSubject)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)

	if err := sender.DialAndSend(m); err != nil {
		monitoring.RegistrationEmails.WithLabelValues("failed").Inc()
		return err
	}
	monitoring.RegistrationEmails.WithLabelValues("sent").Inc()
	return nil
}

// SendTestEmail checks the SMTP settings end to end.
func (s *EmailService) SendTestEmail(ctx context.Context, to string) error {
	cfg, sender := s.current()
	if sender == nil {
		return ErrMailerDisabled
	}
	m := s.newMessage(cfg, to, "Test Email - GGSC Backend")
	m.SetBody("text/plain", "This is a test email from the GGSC backend. Email service is working correctly!")
	m.AddAlternative("text/html", "<p>This is a test email from the GGSC backend.</p><p><strong>Email service is working correctly!</strong></p>")
	return sender.DialAndSend(m)
}
