package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"jengahub-backend/internal/shared/telemetry"
)

// Service fans out notifications. Delivery failures are logged and
// swallowed: notifying is never allowed to fail the operation that
// triggered it.
type Service struct {
	Repo Repo

	// AdminUserIDs receive admin_review notifications.
	AdminUserIDs []string
}

// NewService constructs a Service.
func NewService(repo Repo, adminUserIDs []string) *Service {
	return &Service{Repo: repo, AdminUserIDs: adminUserIDs}
}

// Notify records a notification for one user.
func (s *Service) Notify(ctx context.Context, userID, kind, title, body, rfqID string) {
	if s == nil || s.Repo == nil || userID == "" {
		return
	}
	n := Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Body:      body,
		RFQID:     rfqID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		telemetry.Error("notifications.create.failed", map[string]any{
			"userId": userID,
			"type":   kind,
			"err":    err.Error(),
		})
	}
}

// NotifyAdmins records an admin_review notification for every configured
// admin.
func (s *Service) NotifyAdmins(ctx context.Context, title, body, rfqID string) {
	if s == nil {
		return
	}
	for _, adminID := range s.AdminUserIDs {
		s.Notify(ctx, adminID, TypeAdminReview, title, body, rfqID)
	}
}

// List returns the newest notifications for a user.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Repo.ListByUser(ctx, userID, limit)
}

// MarkRead marks one notification as read.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.Repo.MarkRead(ctx, userID, notificationID)
}
