package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/repositories"
)

// NotificationService manages in-app notification rows. The notifier
// worker feeds it agenda lifecycle events from the bus.
type NotificationService struct {
	notifications repositories.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifications repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// RecordAgendaEvent writes the notification row for one agenda lifecycle
// event
func (s *NotificationService) RecordAgendaEvent(ctx context.Context, event *entities.AgendaEvent) error {
	notification := &entities.Notification{
		ID:        uuid.New().String(),
		UserID:    event.UserID,
		EventID:   &event.EventID,
		Kind:      entities.NotificationKind(event.EventType),
		Message:   renderAgendaMessage(event),
		CreatedAt: time.Now(),
	}
	return s.notifications.Create(ctx, notification)
}

// ListNotifications retrieves the owner's notifications, newest first
func (s *NotificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entities.Notification, error) {
	return s.notifications.ListByUser(ctx, userID, unreadOnly, limit)
}

// MarkRead marks a notification as read within the owner scope
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.notifications.MarkRead(ctx, userID, id)
}

func renderAgendaMessage(event *entities.AgendaEvent) string {
	when := event.EventDate
	if event.StartTime != "" {
		when = fmt.Sprintf("%s at %s", event.EventDate, event.StartTime)
	}

	switch event.EventType {
	case entities.AgendaEventTypeCreated:
		return fmt.Sprintf("Appointment with %s scheduled for %s", event.Professional, when)
	case entities.AgendaEventTypeUpdated:
		return fmt.Sprintf("Appointment with %s was updated, now %s", event.Professional, when)
	case entities.AgendaEventTypeCancelled:
		return fmt.Sprintf("Appointment with %s on %s was cancelled", event.Professional, when)
	default:
		return fmt.Sprintf("Appointment with %s on %s changed", event.Professional, when)
	}
}
