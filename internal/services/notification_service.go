package services

import (
	"context"

	"gestor/internal/models"
	"gestor/internal/realtime"
	"gestor/internal/repositories"
)

// NotificationService serves the per-user notification feed and read-state
// mutations. Every write is announced on the change feed scoped to the
// target user, so that user's clients refetch.
type NotificationService interface {
	ListForUser(ctx context.Context, userID string) ([]models.Notification, int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
}

type notificationService struct {
	repo repositories.NotificationRepository
	feed *realtime.Feed
}

func NewNotificationService(repo repositories.NotificationRepository, feed *realtime.Feed) NotificationService {
	return &notificationService{repo: repo, feed: feed}
}

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, int, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
	}
	return items, unread, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return err
	}
	s.feed.Publish(realtime.Event{
		Table: "notifications", Action: realtime.ActionUpdate, RowID: id, UserID: userID,
	})
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.feed.Publish(realtime.Event{
			Table: "notifications", Action: realtime.ActionUpdate, UserID: userID,
		})
	}
	return n, nil
}

func (s *notificationService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.feed.Publish(realtime.Event{
		Table: "notifications", Action: realtime.ActionDelete, RowID: id, UserID: userID,
	})
	return nil
}
