package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestor/internal/models"
	"gestor/internal/realtime"
)

func TestListForUserCountsUnread(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, realtime.NewFeed())

	require.NoError(t, repo.Create(context.Background(), &models.Notification{ID: "n1", UserID: "u1", Type: models.NotificationTaskAssigned}))
	require.NoError(t, repo.Create(context.Background(), &models.Notification{ID: "n2", UserID: "u1", Type: models.NotificationDeadlineToday}))
	require.NoError(t, repo.Create(context.Background(), &models.Notification{ID: "n3", UserID: "u2", Type: models.NotificationTaskOverdue}))

	items, unread, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, unread)
}

func TestMarkAllReadClearsUnread(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, realtime.NewFeed())

	require.NoError(t, repo.Create(context.Background(), &models.Notification{ID: "n1", UserID: "u1", Type: models.NotificationTaskAssigned}))
	require.NoError(t, repo.Create(context.Background(), &models.Notification{ID: "n2", UserID: "u1", Type: models.NotificationDeadline24h}))

	marked, err := svc.MarkAllRead(context.Background(), "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, marked)

	_, unread, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, unread)

	// A second pass has nothing left to mark.
	marked, err = svc.MarkAllRead(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, marked)
}

func TestDeleteRemovesNotification(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, realtime.NewFeed())

	require.NoError(t, repo.Create(context.Background(), &models.Notification{ID: "n1", UserID: "u1", Type: models.NotificationTaskAssigned}))
	require.NoError(t, svc.Delete(context.Background(), "u1", "n1"))

	items, _, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
