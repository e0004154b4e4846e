package repositories

import (
	"context"
	"database/sql"

	"gestor/internal/models"
)

type EventRepository interface {
	Store(ctx context.Context, e *models.CalendarEvent) error
	FindByID(ctx context.Context, id string) (*models.CalendarEvent, error)
	FindAll(ctx context.Context) ([]models.CalendarEvent, error)
	Update(ctx context.Context, e *models.CalendarEvent) error
	Delete(ctx context.Context, id string) error
}

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventJoinQuery = `SELECT e.id, e.title, e.date, e.type, e.description,
       e.created_by, u.name, e.created_at
FROM calendar_events e LEFT JOIN users u ON u.id = e.created_by`

func scanEvent(scan func(dest ...interface{}) error) (*models.CalendarEvent, error) {
	e := &models.CalendarEvent{}
	var creatorName sql.NullString
	err := scan(&e.ID, &e.Title, &e.Date, &e.Type, &e.Description,
		&e.CreatedBy, &creatorName, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.CreatorName = creatorName.String
	if e.CreatorName == "" {
		e.CreatorName = models.SystemCreator
	}
	return e, nil
}

func (r *eventRepository) Store(ctx context.Context, e *models.CalendarEvent) error {
	query := `
		INSERT INTO calendar_events (id, title, date, type, description, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		e.ID, e.Title, e.Date, e.Type, e.Description, e.CreatedBy).Scan(&e.CreatedAt)
	return mapError(err)
}

func (r *eventRepository) FindByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	row := r.db.QueryRowContext(ctx, eventJoinQuery+` WHERE e.id = $1`, id)
	event, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) FindAll(ctx context.Context) ([]models.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx, eventJoinQuery+` ORDER BY e.date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.CalendarEvent
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *models.CalendarEvent) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE calendar_events SET title=$1, date=$2, type=$3, description=$4 WHERE id=$5`,
		e.Title, e.Date, e.Type, e.Description, e.ID)
	return err
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	return err
}
