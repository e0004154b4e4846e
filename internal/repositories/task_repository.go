package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"gestor/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, to models.TaskStatus) error

	// ListDeadlineCandidates returns every task that can still produce a
	// deadline notification: responsible set, due date set, not Done.
	ListDeadlineCandidates(ctx context.Context) ([]models.Task, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

func marshalObjectives(objectives []models.TaskObjective) ([]byte, error) {
	if objectives == nil {
		objectives = []models.TaskObjective{}
	}
	return json.Marshal(objectives)
}

func scanTask(scan func(dest ...interface{}) error) (*models.Task, error) {
	t := &models.Task{}
	var objectives []byte
	var respName, respAvatar sql.NullString
	err := scan(
		&t.ID, &t.Title, &t.Project, &t.Status, &t.Priority,
		&t.ResponsibleID, &respName, &respAvatar,
		&t.StartDate, &t.DueDate, &objectives,
		&t.CompletionReport, &t.ManagerFeedback, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(objectives) > 0 {
		if err := json.Unmarshal(objectives, &t.Objectives); err != nil {
			return nil, fmt.Errorf("decode objectives for task %s: %w", t.ID, err)
		}
	}
	if t.Objectives == nil {
		t.Objectives = []models.TaskObjective{}
	}
	t.ResponsibleName = respName.String
	if t.ResponsibleName == "" {
		t.ResponsibleName = models.NoResponsible
	}
	t.ResponsibleAvatar = respAvatar.String
	return t, nil
}

const taskViewColumns = `id, title, project, status, priority,
       responsible_id, responsible_name, responsible_avatar,
       start_date, due_date, objectives, completion_report, manager_feedback,
       created_at, updated_at`

// taskJoinQuery is the fallback when the tasks_with_users view is unavailable.
const taskJoinQuery = `SELECT t.id, t.title, t.project, t.status, t.priority,
       t.responsible_id, u.name, u.avatar,
       t.start_date, t.due_date, t.objectives, t.completion_report, t.manager_feedback,
       t.created_at, t.updated_at
FROM tasks t LEFT JOIN users u ON u.id = t.responsible_id`

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	objectives, err := marshalObjectives(task.Objectives)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO tasks (
			id, title, project, status, priority, responsible_id,
			start_date, due_date, objectives, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
		RETURNING created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Project, task.Status, task.Priority,
		task.ResponsibleID, task.StartDate, task.DueDate, objectives,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	return mapError(err)
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, taskJoinQuery+` WHERE t.id = $1`, id)
	task, err := scanTask(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	// Prefer the pre-joined view; fall back to an explicit join if it is
	// missing (fresh database, partial migration).
	tasks, err := r.findAll(ctx, `SELECT `+taskViewColumns+` FROM tasks_with_users`, "", filter)
	if err == nil {
		return tasks, nil
	}
	log.Printf("[task][repo][warn] view fetch failed, falling back to join: %v", err)
	return r.findAll(ctx, taskJoinQuery, "t.", filter)
}

func (r *taskRepository) findAll(ctx context.Context, baseQuery, prefix string, filter models.TaskFilter) ([]models.Task, error) {
	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.ResponsibleID != nil {
		conditions = append(conditions, fmt.Sprintf("%sresponsible_id = $%d", prefix, argID))
		args = append(args, *filter.ResponsibleID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("%sstatus = $%d", prefix, argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Project != nil {
		conditions = append(conditions, fmt.Sprintf("%sproject = $%d", prefix, argID))
		args = append(args, *filter.Project)
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += fmt.Sprintf(" ORDER BY %screated_at DESC", prefix)

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	objectives, err := marshalObjectives(task.Objectives)
	if err != nil {
		return err
	}
	query := `
		UPDATE tasks SET
			title=$1, project=$2, status=$3, priority=$4, responsible_id=$5,
			start_date=$6, due_date=$7, objectives=$8,
			completion_report=$9, manager_feedback=$10, updated_at=NOW()
		WHERE id=$11`
	_, err = r.db.ExecContext(ctx, query,
		task.Title, task.Project, task.Status, task.Priority, task.ResponsibleID,
		task.StartDate, task.DueDate, objectives,
		task.CompletionReport, task.ManagerFeedback, task.ID,
	)
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id string, to models.TaskStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	return err
}

func (r *taskRepository) ListDeadlineCandidates(ctx context.Context) ([]models.Task, error) {
	q := taskJoinQuery + `
WHERE t.responsible_id IS NOT NULL
  AND t.due_date IS NOT NULL
  AND t.status <> 'Done'
ORDER BY t.due_date ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}
