package services

import (
	"context"

	"github.com/google/uuid"

	"gestor/internal/models"
	"gestor/internal/realtime"
	"gestor/internal/repositories"
)

type EventService interface {
	Create(ctx context.Context, e *models.CalendarEvent) (*models.CalendarEvent, error)
	GetAll(ctx context.Context) ([]models.CalendarEvent, error)
	Update(ctx context.Context, id string, updateData *models.CalendarEvent) (*models.CalendarEvent, error)
	Delete(ctx context.Context, id string) error
}

type eventService struct {
	repo repositories.EventRepository
	feed *realtime.Feed
}

func NewEventService(repo repositories.EventRepository, feed *realtime.Feed) EventService {
	return &eventService{repo: repo, feed: feed}
}

func (s *eventService) Create(ctx context.Context, e *models.CalendarEvent) (*models.CalendarEvent, error) {
	if e.Type == "" {
		e.Type = models.EventGeneral
	}
	e.ID = uuid.NewString()
	if err := s.repo.Store(ctx, e); err != nil {
		return nil, err
	}
	s.feed.Publish(realtime.Event{Table: "calendar_events", Action: realtime.ActionInsert, RowID: e.ID})
	return s.repo.FindByID(ctx, e.ID)
}

func (s *eventService) GetAll(ctx context.Context) ([]models.CalendarEvent, error) {
	return s.repo.FindAll(ctx)
}

func (s *eventService) Update(ctx context.Context, id string, updateData *models.CalendarEvent) (*models.CalendarEvent, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Title = updateData.Title
	existing.Date = updateData.Date
	existing.Type = updateData.Type
	existing.Description = updateData.Description

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.feed.Publish(realtime.Event{Table: "calendar_events", Action: realtime.ActionUpdate, RowID: id})
	return s.repo.FindByID(ctx, id)
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.feed.Publish(realtime.Event{Table: "calendar_events", Action: realtime.ActionDelete, RowID: id})
	return nil
}
