package models

import "time"

type NotificationType string

const (
	NotificationTaskAssigned  NotificationType = "task_assigned"
	NotificationDeadline24h   NotificationType = "deadline_24h"
	NotificationDeadlineToday NotificationType = "deadline_today"
	NotificationTaskOverdue   NotificationType = "task_overdue"
)

// Notification targets one user and optionally references a task.
// At most one (user, task, type) row is created per trailing 24h window by the
// deadline scanner; task_assigned rows are exempt from that check.
type Notification struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	TaskID      *string          `json:"taskId,omitempty"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	IsRead      bool             `json:"isRead"`
	CreatedAt   time.Time        `json:"createdAt"`
}
