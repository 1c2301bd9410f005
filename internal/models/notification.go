package models

import "time"

// NotificationLevel classifies a user-visible notification.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
	NotifyWarning NotificationLevel = "warning"
	NotifyInfo    NotificationLevel = "info"
)

// Notification is a transient user-visible message pushed to UI clients.
type Notification struct {
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	Timestamp int64             `json:"timestamp"` // Unix ms
}

// NewNotification builds a notification stamped with the current time.
func NewNotification(level NotificationLevel, message string) *Notification {
	return &Notification{
		Level:     level,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}
}
