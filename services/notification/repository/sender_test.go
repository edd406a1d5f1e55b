package repository

import (
	"testing"

	"fichai/config"
	"fichai/domain"

	"github.com/stretchr/testify/assert"
	"gopkg.in/gomail.v2"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"600111222", "34600111222"},
		{"0600111222", "34600111222"},
		{"+34 600 111 222", "34600111222"},
		{"0034600111222", "34600111222"},
		{"+44 (20) 7946-0018", "442079460018"},
		{" 600-111-222 ", "34600111222"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in, "34"))
		})
	}
}

func TestNewAlertChannels(t *testing.T) {
	assert.Empty(t, NewAlertChannels(&config.Senders{}))

	channels := NewAlertChannels(&config.Senders{
		Mailer:      gomail.NewDialer("smtp.example.com", 587, "user", "pass"),
		EmailSender: "alerts@example.com",
	})
	if assert.Len(t, channels, 1) {
		email := channels[0]
		assert.Equal(t, domain.ChannelEmail, email.Name())

		addr := "ana@example.com"
		empty := ""
		assert.True(t, email.Reachable(&domain.Employee{Email: &addr}))
		assert.False(t, email.Reachable(&domain.Employee{Email: &empty}))
		assert.False(t, email.Reachable(&domain.Employee{}))
	}
}

func TestSMSChannel_Reachable(t *testing.T) {
	ch := &smsChannel{countryCode: "34"}
	tel := "600111222"
	assert.Equal(t, domain.ChannelSMS, ch.Name())
	assert.True(t, ch.Reachable(&domain.Employee{Telephone: &tel}))
	assert.False(t, ch.Reachable(&domain.Employee{}))
}
