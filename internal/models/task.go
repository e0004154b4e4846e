// internal/models/task.go
package models

import "time"

// TaskStatus defines the kanban columns a task can live in.
type TaskStatus string

const (
	StatusBacklog    TaskStatus = "Backlog"
	StatusToDo       TaskStatus = "ToDo"
	StatusInProgress TaskStatus = "InProgress"
	StatusReview     TaskStatus = "Review"
	StatusDone       TaskStatus = "Done"
)

type TaskPriority string

const (
	PriorityLow      TaskPriority = "BAIXA"
	PriorityMedium   TaskPriority = "MÉDIA"
	PriorityHigh     TaskPriority = "ALTA"
	PriorityCritical TaskPriority = "CRÍTICA"
)

// NoResponsible is the display sentinel for tasks without an assignee.
const NoResponsible = "Sem responsável"

// TaskObjective is a checklist item attached to a task (stored as jsonb).
type TaskObjective struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task represents a kanban task. ResponsibleName/ResponsibleAvatar come from the
// tasks_with_users view and are never written back.
type Task struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Project           string          `json:"project"`
	Status            TaskStatus      `json:"status"`
	Priority          TaskPriority    `json:"priority"`
	ResponsibleID     *string         `json:"responsibleId,omitempty"`
	ResponsibleName   string          `json:"responsible"`
	ResponsibleAvatar string          `json:"responsibleAvatar,omitempty"`
	StartDate         *time.Time      `json:"startDate,omitempty"`
	DueDate           *time.Time      `json:"dueDate,omitempty"`
	Objectives        []TaskObjective `json:"objectives"`
	CompletionReport  *string         `json:"completionReport,omitempty"`
	ManagerFeedback   *string         `json:"managerFeedback,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	ResponsibleID *string
	Status        *TaskStatus
	Project       *string
}
