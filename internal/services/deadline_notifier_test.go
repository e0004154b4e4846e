package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestor/internal/models"
	"gestor/internal/realtime"
)

func newTestNotifier(tasks *fakeTaskRepo, notifs *fakeNotificationRepo, at time.Time) *DeadlineNotifier {
	users := newFakeUserRepo()
	d := NewDeadlineNotifier(tasks, notifs, users, realtime.NewFeed(), nil, time.Hour)
	d.now = func() time.Time { return at }
	notifs.nowFunc = d.now
	return d
}

func seedTask(t *testing.T, repo *fakeTaskRepo, id, userID string, due time.Time, status models.TaskStatus) {
	t.Helper()
	uid := userID
	err := repo.Store(context.Background(), &models.Task{
		ID:            id,
		Title:         "Entregar proposta",
		Status:        status,
		ResponsibleID: &uid,
		DueDate:       &due,
	})
	require.NoError(t, err)
}

func TestClassifyDeadlineBuckets(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)

	cases := []struct {
		name string
		due  time.Time
		want models.NotificationType
	}{
		{"one second past due is overdue", now.Add(-time.Second), models.NotificationTaskOverdue},
		{"due later today", now.Add(5 * time.Hour), models.NotificationDeadlineToday},
		{"due tomorrow within 24h", now.Add(23 * time.Hour), models.NotificationDeadline24h},
		{"due in exactly 24h next day", now.Add(24 * time.Hour), models.NotificationDeadline24h},
		{"due beyond 24h", now.Add(25 * time.Hour), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			typ, _, _ := ClassifyDeadline(tc.due, now, "x")
			assert.Equal(t, tc.want, typ)
		})
	}
}

func TestClassifyDeadlineDayRollover(t *testing.T) {
	// 23:50 → a due date 20 minutes out lands on the next calendar day, so
	// it is the 24h bucket, not "today".
	now := time.Date(2026, 3, 10, 23, 50, 0, 0, time.Local)
	typ, _, _ := ClassifyDeadline(now.Add(20*time.Minute), now, "x")
	assert.Equal(t, models.NotificationDeadline24h, typ)

	// Same distance earlier in the day stays "today".
	now = time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	typ, _, _ = ClassifyDeadline(now.Add(20*time.Minute), now, "x")
	assert.Equal(t, models.NotificationDeadlineToday, typ)
}

func TestClassifyDeadlineTitles(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)

	_, title, _ := ClassifyDeadline(now.Add(-time.Hour), now, "Proposta")
	assert.Equal(t, "Tarefa Atrasada: Proposta", title)

	_, title, _ = ClassifyDeadline(now.Add(time.Hour), now, "Proposta")
	assert.Equal(t, "Prazo Hoje: Proposta", title)

	_, title, _ = ClassifyDeadline(now.Add(23*time.Hour), now, "Proposta")
	assert.Equal(t, "Prazo em 24h: Proposta", title)
}

func TestScanCreatesOnePerBucket(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	tasks := newFakeTaskRepo()
	notifs := newFakeNotificationRepo()
	d := newTestNotifier(tasks, notifs, now)

	seedTask(t, tasks, "t-overdue", "u1", now.Add(-time.Hour), models.StatusInProgress)
	seedTask(t, tasks, "t-today", "u1", now.Add(2*time.Hour), models.StatusToDo)
	seedTask(t, tasks, "t-24h", "u2", now.Add(23*time.Hour), models.StatusBacklog)
	seedTask(t, tasks, "t-far", "u2", now.Add(72*time.Hour), models.StatusBacklog)

	require.NoError(t, d.Scan(context.Background()))

	assert.Len(t, notifs.byType(models.NotificationTaskOverdue), 1)
	assert.Len(t, notifs.byType(models.NotificationDeadlineToday), 1)
	assert.Len(t, notifs.byType(models.NotificationDeadline24h), 1)
	assert.Equal(t, 3, notifs.count())
}

func TestScanDeduplicatesWithin24h(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	tasks := newFakeTaskRepo()
	notifs := newFakeNotificationRepo()
	d := newTestNotifier(tasks, notifs, now)

	seedTask(t, tasks, "t1", "u1", now.Add(2*time.Hour), models.StatusInProgress)

	require.NoError(t, d.Scan(context.Background()))
	require.NoError(t, d.Scan(context.Background()))
	assert.Equal(t, 1, notifs.count(), "second scan must not duplicate within the window")

	// Move past the window: the same (user, task, type) may fire again.
	later := now.Add(25 * time.Hour)
	d.now = func() time.Time { return later }
	// The task is now overdue, which is a different bucket anyway.
	require.NoError(t, d.Scan(context.Background()))
	assert.Len(t, notifs.byType(models.NotificationTaskOverdue), 1)
}

func TestScanSkipsDoneTasks(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	tasks := newFakeTaskRepo()
	notifs := newFakeNotificationRepo()
	d := newTestNotifier(tasks, notifs, now)

	seedTask(t, tasks, "t1", "u1", now.Add(-time.Hour), models.StatusDone)
	require.NoError(t, d.Scan(context.Background()))
	assert.Zero(t, notifs.count())
}

func TestStartStopLifecycle(t *testing.T) {
	tasks := newFakeTaskRepo()
	notifs := newFakeNotificationRepo()
	d := newTestNotifier(tasks, notifs, time.Now())

	assert.False(t, d.Running())
	d.Start()
	assert.True(t, d.Running())

	// Second Start is a no-op, not a second loop.
	d.Start()
	assert.True(t, d.Running())

	d.Stop()
	assert.False(t, d.Running())
	// Stop is idempotent.
	d.Stop()
	assert.False(t, d.Running())
}
