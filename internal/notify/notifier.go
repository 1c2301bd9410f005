// Package notify delivers transient user-visible notifications.
package notify

import (
	"github.com/charmbracelet/log"

	"github.com/fileflow/backend/internal/models"
)

// Notifier is the sink for user-visible notifications emitted by intake and
// the upload orchestrator.
type Notifier interface {
	Success(message string)
	Error(message string)
	Warning(message string)
	Info(message string)
}

// Broadcaster sends notifications to subscribed clients.
type Broadcaster interface {
	Broadcast(n *models.Notification)
}

// Service broadcasts notifications to UI clients and mirrors them to the log.
type Service struct {
	hub Broadcaster
	log *log.Logger
}

// NewService creates a notification service. hub may be nil, in which case
// notifications are only logged.
func NewService(hub Broadcaster, logger *log.Logger) *Service {
	return &Service{hub: hub, log: logger}
}

func (s *Service) emit(level models.NotificationLevel, message string) {
	if s.hub != nil {
		s.hub.Broadcast(models.NewNotification(level, message))
	}
}

// Success emits a success notification.
func (s *Service) Success(message string) {
	s.log.Info(message, "notify", "success")
	s.emit(models.NotifySuccess, message)
}

// Error emits an error notification.
func (s *Service) Error(message string) {
	s.log.Error(message, "notify", "error")
	s.emit(models.NotifyError, message)
}

// Warning emits a warning notification.
func (s *Service) Warning(message string) {
	s.log.Warn(message, "notify", "warning")
	s.emit(models.NotifyWarning, message)
}

// Info emits an informational notification.
func (s *Service) Info(message string) {
	s.log.Info(message, "notify", "info")
	s.emit(models.NotifyInfo, message)
}
