package domain

import (
	"context"
	"time"
)

// AlertNotificationHistory records which channels reached one recipient for one alert.
type AlertNotificationHistory struct {
	NotificationHistoryID int       `gorm:"primaryKey;autoIncrement" json:"notification_history_id"`
	AlertID               int       `gorm:"not null;index" json:"alert_id"`
	Alert                 *Alert    `gorm:"foreignKey:AlertID;references:AlertID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"alert,omitempty"`
	RecipientID           int       `gorm:"not null;index" json:"recipient_id"`
	Recipient             *Employee `gorm:"foreignKey:RecipientID;references:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"recipient,omitempty"`
	EmailStatus           bool      `gorm:"not null" json:"email"`
	WhatsappStatus        bool      `gorm:"not null" json:"whatsapp"`
	SMSStatus             bool      `gorm:"not null" json:"sms"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
}

const (
	ChannelEmail    = "email"
	ChannelWhatsapp = "whatsapp"
	ChannelSMS      = "sms"
)

// AlertChannel is one delivery medium. Reachable reports whether the
// recipient has the contact data the channel needs.
type AlertChannel interface {
	Name() string
	Reachable(recipient *Employee) bool
	Send(ctx context.Context, recipient *Employee, subject, body string) error
}

type NotificationRepo interface {
	LogNotificationHistory(ctx context.Context, history *AlertNotificationHistory) error
	GetAllNotificationHistory(ctx context.Context, institutionID int) (*[]AlertNotificationHistory, error)
}

type NotificationUseCase interface {
	AlertDispatcher
	GetAllNotificationHistory(ctx context.Context, institutionID int) (*[]AlertNotificationHistory, error)
}
