package repository

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"fichai/config"
	"fichai/domain"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"gopkg.in/gomail.v2"
)

// NewAlertChannels returns the channels that are configured in s, in the
// order they are tried.
func NewAlertChannels(s *config.Senders) []domain.AlertChannel {
	var channels []domain.AlertChannel
	if s.Mailer != nil {
		channels = append(channels, &emailChannel{dialer: s.Mailer, from: s.EmailSender})
	}
	if s.Meow != nil {
		channels = append(channels, &whatsappChannel{client: s.Meow, countryCode: s.CountryCode})
	}
	if s.Twilio != nil {
		channels = append(channels, &smsChannel{client: s.Twilio, from: s.TwilioFrom, countryCode: s.CountryCode})
	}
	return channels
}

type emailChannel struct {
	dialer *gomail.Dialer
	from   string
}

func (e *emailChannel) Name() string { return domain.ChannelEmail }

func (e *emailChannel) Reachable(recipient *domain.Employee) bool {
	return recipient.Email != nil && *recipient.Email != ""
}

func (e *emailChannel) Send(ctx context.Context, recipient *domain.Employee, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", *recipient.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := e.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type whatsappChannel struct {
	client      *whatsmeow.Client
	countryCode string
}

func (w *whatsappChannel) Name() string { return domain.ChannelWhatsapp }

func (w *whatsappChannel) Reachable(recipient *domain.Employee) bool {
	return recipient.Telephone != nil && *recipient.Telephone != "" && w.client.IsLoggedIn()
}

func (w *whatsappChannel) Send(ctx context.Context, recipient *domain.Employee, subject, body string) error {
	jid := types.NewJID(NormalizePhone(*recipient.Telephone, w.countryCode), types.DefaultUserServer)
	text := fmt.Sprintf("*%s*\n\n%s", subject, body)

	conversationMessage := &waE2E.Message{
		Conversation: &text,
	}
	if _, err := w.client.SendMessage(ctx, jid, conversationMessage); err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	return nil
}

type smsChannel struct {
	client      *twilio.RestClient
	from        string
	countryCode string
}

func (s *smsChannel) Name() string { return domain.ChannelSMS }

func (s *smsChannel) Reachable(recipient *domain.Employee) bool {
	return recipient.Telephone != nil && *recipient.Telephone != ""
}

func (s *smsChannel) Send(ctx context.Context, recipient *domain.Employee, subject, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo("+" + NormalizePhone(*recipient.Telephone, s.countryCode))
	params.SetFrom(s.from)
	params.SetBody(subject + "\n" + body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	return nil
}

// NormalizePhone turns a stored telephone into international digits without
// the leading plus. Numbers written with + or 00 keep their own prefix; a
// trunk 0 or a bare national number gets countryCode.
func NormalizePhone(telephone, countryCode string) string {
	tel := strings.TrimSpace(telephone)
	international := strings.HasPrefix(tel, "+") || strings.HasPrefix(tel, "00")

	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, tel)

	switch {
	case strings.HasPrefix(tel, "00"):
		return strings.TrimPrefix(digits, "00")
	case international:
		return digits
	case strings.HasPrefix(digits, "0"):
		return countryCode + digits[1:]
	default:
		return countryCode + digits
	}
}
