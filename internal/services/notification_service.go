// internal/services/notification_service.go
package services

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sitewise/siteqa-backend/internal/config"
	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/store"
)

const (
	NotificationTypeNonConformance = "non_conformance"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

// NotificationService persists in-app notification rows and sends
// best-effort emails on top of them. Email failures are logged, never
// surfaced to the caller.
type NotificationService struct {
	store store.Store
	email config.EmailConfig
}

func NewNotificationService(store store.Store, email config.EmailConfig) *NotificationService {
	return &NotificationService{store: store, email: email}
}

// NotifyNonConformance raises an alert for a failed inspection point. It is
// called off the request path; errors are logged and swallowed.
func (s *NotificationService) NotifyNonConformance(ctx context.Context, lot *models.Lot, item *models.ITPItem, record *models.ConformanceRecord) {
	notification := &models.Notification{
		ProjectID:           &lot.ProjectID,
		LotID:               &lot.ID,
		Type:                NotificationTypeNonConformance,
		Title:               fmt.Sprintf("Non-conformance on lot %s", lot.LotNumber),
		Message:             fmt.Sprintf("Item %s (%s) failed inspection: %s", item.ItemNumber, item.Description, record.Comments),
		Priority:            PriorityHigh,
		RelatedResourceType: "conformance_record",
		RelatedResourceID:   &record.ID,
	}

	if err := s.store.CreateNotification(ctx, notification); err != nil {
		logrus.WithError(err).WithField("lot_id", lot.ID).Error("Failed to create non-conformance notification")
		return
	}

	s.emailSupervisors(ctx, notification)
}

// ListNotifications returns notifications, optionally scoped to a project.
func (s *NotificationService) ListNotifications(ctx context.Context, projectID *uuid.UUID, params store.ListParams) ([]models.Notification, int64, error) {
	notifications, total, err := s.store.ListNotifications(ctx, projectID, params)
	if err != nil {
		return nil, 0, storeErr(err, "notifications")
	}
	return notifications, total, nil
}

func (s *NotificationService) emailSupervisors(ctx context.Context, notification *models.Notification) {
	if s.email.SMTPHost == "" {
		return
	}

	recipients, err := s.store.ListUsersByRole(ctx, []models.UserRole{models.UserRoleAdmin, models.UserRoleSupervisor})
	if err != nil {
		logrus.WithError(err).Error("Failed to resolve notification recipients")
		return
	}
	if len(recipients) == 0 {
		return
	}

	to := make([]string, 0, len(recipients))
	for _, user := range recipients {
		to = append(to, user.Email)
	}

	body := fmt.Sprintf("From: %s <%s>\r\nSubject: [%s] %s\r\n\r\n%s\r\n",
		s.email.FromName, s.email.FromEmail, s.email.FromName, notification.Title, notification.Message)

	addr := s.email.SMTPHost + ":" + s.email.SMTPPort
	auth := smtp.PlainAuth("", s.email.SMTPUsername, s.email.SMTPPassword, s.email.SMTPHost)
	if err := smtp.SendMail(addr, auth, s.email.FromEmail, to, []byte(body)); err != nil {
		logrus.WithError(err).WithField("recipients", len(to)).Error("Failed to send notification email")
	}
}
