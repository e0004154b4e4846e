package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestor/internal/models"
	"gestor/internal/realtime"
)

func newTestTaskService(tasks *fakeTaskRepo, users *fakeUserRepo, notifs *fakeNotificationRepo) TaskService {
	return NewTaskService(tasks, users, notifs, realtime.NewFeed(), nil)
}

func TestTaskCreateDefaults(t *testing.T) {
	svc := newTestTaskService(newFakeTaskRepo(), newFakeUserRepo(), newFakeNotificationRepo())

	created, err := svc.Create(context.Background(), &models.Task{Title: "Nova campanha"}, "creator")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusBacklog, created.Status)
	assert.Equal(t, models.PriorityMedium, created.Priority)
}

func TestTaskCreateNotifiesAssignee(t *testing.T) {
	tasks := newFakeTaskRepo()
	users := newFakeUserRepo()
	notifs := newFakeNotificationRepo()
	svc := newTestTaskService(tasks, users, notifs)

	require.NoError(t, users.Create(context.Background(), &models.User{ID: "manager", Name: "Ana"}))
	require.NoError(t, users.Create(context.Background(), &models.User{ID: "dev", Name: "Bruno"}))

	dev := "dev"
	created, err := svc.Create(context.Background(), &models.Task{
		Title:         "Rever contrato",
		ResponsibleID: &dev,
	}, "manager")
	require.NoError(t, err)

	got := notifs.byType(models.NotificationTaskAssigned)
	require.Len(t, got, 1)
	assert.Equal(t, "dev", got[0].UserID)
	assert.Equal(t, "Nova Tarefa: Rever contrato", got[0].Title)
	require.NotNil(t, got[0].TaskID)
	assert.Equal(t, created.ID, *got[0].TaskID)
	require.NotNil(t, got[0].Description)
	assert.Contains(t, *got[0].Description, "Ana")
}

func TestTaskCreateSelfAssignedNoNotification(t *testing.T) {
	tasks := newFakeTaskRepo()
	users := newFakeUserRepo()
	notifs := newFakeNotificationRepo()
	svc := newTestTaskService(tasks, users, notifs)

	me := "me"
	_, err := svc.Create(context.Background(), &models.Task{
		Title:         "Organizar sprint",
		ResponsibleID: &me,
	}, "me")
	require.NoError(t, err)
	assert.Zero(t, notifs.count())
}

func TestTaskReassignmentNotifies(t *testing.T) {
	tasks := newFakeTaskRepo()
	users := newFakeUserRepo()
	notifs := newFakeNotificationRepo()
	svc := newTestTaskService(tasks, users, notifs)

	a := "a"
	created, err := svc.Create(context.Background(), &models.Task{
		Title:         "Migração de dados",
		ResponsibleID: &a,
	}, "a")
	require.NoError(t, err)
	require.Zero(t, notifs.count())

	b := "b"
	update := *created
	update.ResponsibleID = &b
	_, err = svc.Update(context.Background(), created.ID, &update)
	require.NoError(t, err)

	got := notifs.byType(models.NotificationTaskAssigned)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].UserID)
}

func TestTaskUpdateStatusValidation(t *testing.T) {
	tasks := newFakeTaskRepo()
	svc := newTestTaskService(tasks, newFakeUserRepo(), newFakeNotificationRepo())

	created, err := svc.Create(context.Background(), &models.Task{Title: "x"}, "u")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, "EmAndamento")
	assert.Error(t, err)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, models.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, updated.Status)
}
