package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gestor/internal/models"
	"gestor/internal/realtime"
	"gestor/internal/repositories"
)

type ClientService interface {
	Create(ctx context.Context, c *models.Client) (*models.Client, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetAll(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, id string, updateData *models.Client) (*models.Client, error)
	UpdateStatus(ctx context.Context, id string, to models.ClientStatus) (*models.Client, error)
	Claim(ctx context.Context, id, userID string) (*models.Client, error)
	Delete(ctx context.Context, id string) error
}

type clientService struct {
	repo repositories.ClientRepository
	feed *realtime.Feed
}

func NewClientService(repo repositories.ClientRepository, feed *realtime.Feed) ClientService {
	return &clientService{repo: repo, feed: feed}
}

func (s *clientService) Create(ctx context.Context, c *models.Client) (*models.Client, error) {
	if c.Status == "" {
		c.Status = models.ClientNewLead
	}
	c.ID = uuid.NewString()
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.feed.Publish(realtime.Event{Table: "clients", Action: realtime.ActionInsert, RowID: c.ID})
	return s.repo.GetByID(ctx, c.ID)
}

func (s *clientService) GetByID(ctx context.Context, id string) (*models.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *clientService) GetAll(ctx context.Context) ([]models.Client, error) {
	return s.repo.FindAll(ctx)
}

func (s *clientService) Update(ctx context.Context, id string, updateData *models.Client) (*models.Client, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = updateData.Name
	existing.Email = updateData.Email
	existing.Phone = updateData.Phone
	existing.CompanyPhone = updateData.CompanyPhone
	existing.InternalContact = updateData.InternalContact
	existing.InternalContactPhone = updateData.InternalContactPhone
	existing.InternalContactRole = updateData.InternalContactRole
	existing.ClientResponsibleName = updateData.ClientResponsibleName
	existing.ClientResponsiblePhone = updateData.ClientResponsiblePhone
	existing.Status = updateData.Status
	existing.ResponsibleID = updateData.ResponsibleID
	existing.Services = updateData.Services
	existing.Location = updateData.Location
	existing.Provenance = updateData.Provenance
	existing.LastActivity = updateData.LastActivity

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.feed.Publish(realtime.Event{Table: "clients", Action: realtime.ActionUpdate, RowID: id})
	return s.repo.GetByID(ctx, id)
}

func (s *clientService) UpdateStatus(ctx context.Context, id string, to models.ClientStatus) (*models.Client, error) {
	if !isAllowedClientStatus(to) {
		return nil, fmt.Errorf("invalid client status %q", to)
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	s.feed.Publish(realtime.Event{Table: "clients", Action: realtime.ActionUpdate, RowID: id})
	return s.repo.GetByID(ctx, id)
}

// Claim assigns the lead to userID only when it is still unclaimed; first
// write wins, the loser gets repositories.ErrAlreadyClaimed.
func (s *clientService) Claim(ctx context.Context, id, userID string) (*models.Client, error) {
	if err := s.repo.ClaimResponsible(ctx, id, userID); err != nil {
		return nil, err
	}
	s.feed.Publish(realtime.Event{Table: "clients", Action: realtime.ActionUpdate, RowID: id})
	return s.repo.GetByID(ctx, id)
}

func (s *clientService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.feed.Publish(realtime.Event{Table: "clients", Action: realtime.ActionDelete, RowID: id})
	return nil
}

func isAllowedClientStatus(st models.ClientStatus) bool {
	switch st {
	case models.ClientNewLead, models.ClientInContact, models.ClientProposalSent,
		models.ClientConsultation, models.ClientConverted, models.ClientReengage,
		models.ClientLost:
		return true
	}
	return false
}
