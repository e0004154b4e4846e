// internal/services/task_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"gestor/internal/models"
	"gestor/internal/realtime"
	"gestor/internal/repositories"
)

// TaskService defines the interface for task-related business logic.
type TaskService interface {
	Create(ctx context.Context, task *models.Task, creatorID string) (*models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, id string, updateData *models.Task) (*models.Task, error)
	UpdateStatus(ctx context.Context, id string, to models.TaskStatus) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	repo   repositories.TaskRepository
	users  repositories.UserRepository
	notifs repositories.NotificationRepository
	feed   *realtime.Feed
	tg     *TelegramService
}

func NewTaskService(
	repo repositories.TaskRepository,
	users repositories.UserRepository,
	notifs repositories.NotificationRepository,
	feed *realtime.Feed,
	tg *TelegramService,
) TaskService {
	return &taskService{repo: repo, users: users, notifs: notifs, feed: feed, tg: tg}
}

// Create stores the task and, when it is assigned to somebody else, writes a
// task_assigned notification synchronously. Assignment notifications are
// always inserted once per assignment event (no 24h de-dup).
func (s *taskService) Create(ctx context.Context, task *models.Task, creatorID string) (*models.Task, error) {
	if task.Status == "" {
		task.Status = models.StatusBacklog
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	task.ID = uuid.NewString()

	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	s.feed.Publish(realtime.Event{Table: "tasks", Action: realtime.ActionInsert, RowID: task.ID})

	if task.ResponsibleID != nil && *task.ResponsibleID != creatorID {
		s.notifyAssignment(ctx, task, creatorID)
	}
	return s.repo.FindByID(ctx, task.ID)
}

func (s *taskService) notifyAssignment(ctx context.Context, task *models.Task, creatorID string) {
	assignedBy := "um gestor"
	if creator, err := s.users.GetByID(ctx, creatorID); err == nil {
		assignedBy = creator.Name
	}
	desc := fmt.Sprintf("Você foi designado para esta tarefa por %s", assignedBy)
	n := &models.Notification{
		ID:          uuid.NewString(),
		UserID:      *task.ResponsibleID,
		TaskID:      &task.ID,
		Type:        models.NotificationTaskAssigned,
		Title:       fmt.Sprintf("Nova Tarefa: %s", task.Title),
		Description: &desc,
	}
	if err := s.notifs.Create(ctx, n); err != nil {
		// Assignment notifications are best effort; the task itself is saved.
		log.Printf("[task][notify][err] task_assigned for task=%s user=%s: %v", task.ID, n.UserID, err)
		return
	}
	s.feed.Publish(realtime.Event{
		Table: "notifications", Action: realtime.ActionInsert, RowID: n.ID, UserID: n.UserID,
	})
	s.relayTelegram(ctx, n)
}

func (s *taskService) relayTelegram(ctx context.Context, n *models.Notification) {
	if s.tg == nil {
		return
	}
	chatID, allow, err := s.users.GetTelegramSettings(ctx, n.UserID)
	if err != nil || !allow || chatID == 0 {
		return
	}
	_ = s.tg.SendNotification(chatID, n)
}

func (s *taskService) GetByID(ctx context.Context, id string) (*models.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *taskService) Update(ctx context.Context, id string, updateData *models.Task) (*models.Task, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prevResponsible := existing.ResponsibleID

	existing.Title = updateData.Title
	existing.Project = updateData.Project
	existing.Status = updateData.Status
	existing.Priority = updateData.Priority
	existing.ResponsibleID = updateData.ResponsibleID
	existing.StartDate = updateData.StartDate
	existing.DueDate = updateData.DueDate
	existing.Objectives = updateData.Objectives
	existing.CompletionReport = updateData.CompletionReport
	existing.ManagerFeedback = updateData.ManagerFeedback
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.feed.Publish(realtime.Event{Table: "tasks", Action: realtime.ActionUpdate, RowID: id})

	// Reassignment also produces a task_assigned notification.
	if existing.ResponsibleID != nil &&
		(prevResponsible == nil || *prevResponsible != *existing.ResponsibleID) {
		s.notifyAssignment(ctx, existing, "")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) UpdateStatus(ctx context.Context, id string, to models.TaskStatus) (*models.Task, error) {
	if !isAllowedTaskStatus(to) {
		return nil, fmt.Errorf("invalid task status %q", to)
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	s.feed.Publish(realtime.Event{Table: "tasks", Action: realtime.ActionUpdate, RowID: id})
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.feed.Publish(realtime.Event{Table: "tasks", Action: realtime.ActionDelete, RowID: id})
	return nil
}

func isAllowedTaskStatus(s models.TaskStatus) bool {
	switch s {
	case models.StatusBacklog, models.StatusToDo, models.StatusInProgress,
		models.StatusReview, models.StatusDone:
		return true
	}
	return false
}
