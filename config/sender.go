package config

import (
	"context"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/skip2/go-qrcode"
	"github.com/twilio/twilio-go"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"gopkg.in/gomail.v2"
)

// Senders groups the optional outbound channels. A nil field means the
// channel is not configured.
type Senders struct {
	Mailer       *gomail.Dialer
	EmailSender  string
	Meow         *whatsmeow.Client
	Twilio       *twilio.RestClient
	TwilioFrom   string
	ContactPhone string
	CountryCode  string
}

func InitSenders() (*Senders, error) {
	s := &Senders{
		ContactPhone: os.Getenv("CONTACT_PHONE"),
		CountryCode:  getCountryCode(),
	}

	if err := initMailer(s); err != nil {
		return nil, err
	}
	initTwilio(s)

	if os.Getenv("WHATSAPP_ENABLED") == "true" {
		meow, err := initMeow(s)
		if err != nil {
			return nil, err
		}
		s.Meow = meow
	}

	return s, nil
}

func initMailer(s *Senders) error {
	host := os.Getenv("SMTP_HOST")
	sender := os.Getenv("EMAIL_SENDER")
	if host == "" || sender == "" {
		GetLogrusInstance().Warn("SMTP_HOST or EMAIL_SENDER missing, email channel disabled")
		return nil
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		return fmt.Errorf("smtp port invalid, value : %s", os.Getenv("SMTP_PORT"))
	}

	s.Mailer = gomail.NewDialer(host, port, sender, os.Getenv("EMAIL_SENDER_PASSWORD"))
	s.EmailSender = sender
	GetLogrusInstance().Info("SMTP initialized")
	return nil
}

func initTwilio(s *Senders) {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM_NUMBER")
	if sid == "" || token == "" || from == "" {
		GetLogrusInstance().Warn("Twilio credentials missing, SMS channel disabled")
		return
	}

	s.Twilio = twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: sid,
		Password: token,
	})
	s.TwilioFrom = from
	GetLogrusInstance().Info("Twilio initialized")
}

func initMeow(s *Senders) (*whatsmeow.Client, error) {
	dbms := os.Getenv("DBMS")
	if dbms == "" {
		dbms = "postgres"
	}
	meowAddress := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"))

	container, err := sqlstore.New(dbms, meowAddress, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open whatsapp store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice()
	if err != nil {
		return nil, fmt.Errorf("failed to load whatsapp device: %w", err)
	}
	client := whatsmeow.NewClient(deviceStore, nil)

	if client.Store.ID != nil {
		if err := client.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect whatsapp: %w", err)
		}
		GetLogrusInstance().Info("WhatsMeow initialized")
		return client, nil
	}

	qrChan, err := client.GetQRChannel(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get whatsapp qr channel: %w", err)
	}
	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect whatsapp: %w", err)
	}

	// the pairing loop runs in the background; the channel reports itself
	// unavailable until the session is logged in
	go func() {
		sent := false
		for evt := range qrChan {
			if evt.Event != "code" {
				GetLogrusInstance().WithField("event", evt.Event).Info("WhatsApp login event")
				continue
			}
			if sent {
				continue
			}
			GetLogrusInstance().Warn("no WhatsApp session found, an admin needs to scan the login QR code")
			if err := qrcode.WriteFile(evt.Code, qrcode.Medium, 256, "qrcode.png"); err != nil {
				GetLogrusInstance().WithError(err).Error("failed to generate WhatsApp QR code")
				continue
			}
			if err := SendQRToEmail(s, "qrcode.png"); err != nil {
				GetLogrusInstance().WithError(err).Error("failed to email WhatsApp QR code")
				continue
			}
			GetLogrusInstance().Infof("Image of QR Code is sent to %s", s.EmailSender)
			sent = true
		}
	}()

	return client, nil
}

// SendQRToEmail mails the WhatsApp login QR code to the sender mailbox.
func SendQRToEmail(s *Senders, qrFilePath string) error {
	if s.Mailer == nil {
		return fmt.Errorf("email channel is not configured")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.EmailSender)
	m.SetHeader("To", s.EmailSender)
	m.SetHeader("Subject", fmt.Sprintf("%s WhatsApp QR Code Login", GetAppName()))
	m.SetBody("text/plain", "Please find the attached QR code for login.")
	m.Attach(qrFilePath)

	if err := s.Mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func getCountryCode() string {
	v := os.Getenv("PHONE_COUNTRY_CODE")
	if v == "" {
		return "34"
	}
	return v
}
