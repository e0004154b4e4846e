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

func TestDefaultTransactionStatus(t *testing.T) {
	assert.Equal(t, models.TransactionReceived, DefaultTransactionStatus(models.TransactionIncome))
	assert.Equal(t, models.TransactionPaid, DefaultTransactionStatus(models.TransactionExpense))
	assert.Equal(t, models.TransactionPaid, DefaultTransactionStatus(models.TransactionInvestment))
}

func TestTransactionCreateAppliesDefaultStatus(t *testing.T) {
	svc := NewTransactionService(newFakeTransactionRepo(), realtime.NewFeed())

	created, err := svc.Create(context.Background(), &models.Transaction{
		Description: "Mensalidade cliente",
		Date:        time.Now(),
		Value:       15000,
		Type:        models.TransactionIncome,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionReceived, created.Status)
}

func TestTransactionCreateKeepsExplicitStatus(t *testing.T) {
	svc := NewTransactionService(newFakeTransactionRepo(), realtime.NewFeed())

	created, err := svc.Create(context.Background(), &models.Transaction{
		Description: "Fatura fornecedor",
		Date:        time.Now(),
		Value:       8000,
		Type:        models.TransactionExpense,
		Status:      models.TransactionPending,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionPending, created.Status)
}
