package services

import (
	"context"

	"github.com/google/uuid"

	"gestor/internal/models"
	"gestor/internal/realtime"
	"gestor/internal/repositories"
)

type TransactionService interface {
	Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	GetAll(ctx context.Context) ([]models.Transaction, error)
	Update(ctx context.Context, id string, updateData *models.Transaction) (*models.Transaction, error)
	Delete(ctx context.Context, id string) error
}

type transactionService struct {
	repo repositories.TransactionRepository
	feed *realtime.Feed
}

func NewTransactionService(repo repositories.TransactionRepository, feed *realtime.Feed) TransactionService {
	return &transactionService{repo: repo, feed: feed}
}

// DefaultTransactionStatus maps a transaction type to the status a new entry
// gets when none is supplied: income arrives as received, money leaving the
// house as paid.
func DefaultTransactionStatus(t models.TransactionType) models.TransactionStatus {
	if t == models.TransactionIncome {
		return models.TransactionReceived
	}
	return models.TransactionPaid
}

func (s *transactionService) Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	if t.Status == "" {
		t.Status = DefaultTransactionStatus(t.Type)
	}
	t.ID = uuid.NewString()
	if err := s.repo.Store(ctx, t); err != nil {
		return nil, err
	}
	s.feed.Publish(realtime.Event{Table: "transactions", Action: realtime.ActionInsert, RowID: t.ID})
	return s.repo.FindByID(ctx, t.ID)
}

func (s *transactionService) GetAll(ctx context.Context) ([]models.Transaction, error) {
	return s.repo.FindAll(ctx)
}

func (s *transactionService) Update(ctx context.Context, id string, updateData *models.Transaction) (*models.Transaction, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Description = updateData.Description
	existing.Date = updateData.Date
	existing.Category = updateData.Category
	existing.Value = updateData.Value
	existing.Type = updateData.Type
	existing.Status = updateData.Status

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.feed.Publish(realtime.Event{Table: "transactions", Action: realtime.ActionUpdate, RowID: id})
	return s.repo.FindByID(ctx, id)
}

func (s *transactionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.feed.Publish(realtime.Event{Table: "transactions", Action: realtime.ActionDelete, RowID: id})
	return nil
}
