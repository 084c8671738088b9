package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sooyeonjun/giftpool-backend/pkg/db/models"
	"github.com/sooyeonjun/giftpool-backend/pkg/enums"
	pkgerrors "github.com/sooyeonjun/giftpool-backend/pkg/errors"
	"github.com/sooyeonjun/giftpool-backend/pkg/pagination"
)

// NotificationDTO is the API shape of a single in-app notification.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"created_at"`
}

// ListPage bundles a page of notifications and the next-page cursor.
type ListPage struct {
	Items      []NotificationDTO `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// Service exposes the in-app notification feed.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, limit int, cursor string, unreadOnly bool) (ListPage, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
}

// NewService builds a notifications service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, limit int, cursor string, unreadOnly bool) (ListPage, error) {
	parsed, err := pagination.ParseCursor(cursor)
	if err != nil {
		return ListPage{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, next, err := s.repo.List(ctx, listNotificationsParams{
		UserID:     userID,
		Limit:      limit,
		Cursor:     parsed,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		return ListPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	page := ListPage{Items: make([]NotificationDTO, 0, len(rows))}
	for i := range rows {
		page.Items = append(page.Items, toNotificationDTO(&rows[i]))
	}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	mark, err := s.repo.MarkRead(ctx, userID, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !mark.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return updated, nil
}

func toNotificationDTO(row *models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        row.ID,
		Type:      row.Type,
		Title:     row.Title,
		Message:   row.Message,
		Read:      row.ReadAt != nil,
		CreatedAt: row.CreatedAt,
	}
}
