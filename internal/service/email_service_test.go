package service

import (
	"context"
	"errors"
	"ggsc_backend/internal/config"
	"ggsc_backend/internal/model"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	messages []*gomail.Message
	err      error
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, m...)
	return nil
}

func mailUser() *model.User {
	return &model.User{
		Email:            "a@x.com",
		FullName:         "Alice <script>",
		EnrollmentNumber: "E1",
		Department:       "CSE",
		Year:             2,
	}
}

func TestEmailService_RenderRegistration(t *testing.T) {
	svc, err := NewEmailService(config.MailConfig{})
	if err != nil {
		t.Fatal(err)
	}
	text, html, err := svc.RenderRegistration(mailUser())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "2nd Year") || !strings.Contains(text, "E1") {
		t.Errorf("text body missing fields:\n%s", text)
	}
	if strings.Contains(html, "<script>") {
		t.Error("html body must escape user input")
	}
}

func TestEmailService_SendRegistrationEmail(t *testing.T) {
	svc, err := NewEmailService(config.MailConfig{Host: "smtp.example.com", Port: 465, FromName: "GGSC Event", FromAddress: "noreply@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	sender := &recordingSender{}
	svc.SetSender(sender)

	if err := svc.SendRegistrationEmail(context.Background(), mailUser()); err != nil {
		t.Fatal(err)
	}
	if len(sender.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.messages))
	}
	m := sender.messages[0]
	if got := m.GetHeader("To"); len(got) != 1 || got[0] != "a@x.com" {
		t.Errorf("unexpected recipient %v", got)
	}
	if got := m.GetHeader("Subject"); len(got) != 1 || got[0] != registrationSubject {
		t.Errorf("unexpected subject %v", got)
	}
}

func TestEmailService_Disabled(t *testing.T) {
	svc, err := NewEmailService(config.MailConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SendRegistrationEmail(context.Background(), mailUser()); !errors.Is(err, ErrMailerDisabled) {
		t.Errorf("expected disabled error, got %v", err)
	}
}

func TestYearDisplay(t *testing.T) {
	cases := map[int]string{1: "1st Year", 2: "2nd Year", 3: "3rd Year", 4: "4th Year", 7: "7th Year"}
	for year, want := range cases {
		if got := yearDisplay(year); got != want {
			t.Errorf("year %d: expected %q, got %q", year, want, got)
		}
	}
}
