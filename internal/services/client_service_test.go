package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestor/internal/models"
	"gestor/internal/realtime"
	"gestor/internal/repositories"
)

func TestClientCreateDefaultsToNewLead(t *testing.T) {
	svc := NewClientService(newFakeClientRepo(), realtime.NewFeed())

	created, err := svc.Create(context.Background(), &models.Client{Name: "Farmácia Central"})
	require.NoError(t, err)
	assert.Equal(t, models.ClientNewLead, created.Status)
	assert.NotEmpty(t, created.ID)
}

func TestClaimFirstWriteWins(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewClientService(repo, realtime.NewFeed())

	created, err := svc.Create(context.Background(), &models.Client{Name: "Hotel Polana"})
	require.NoError(t, err)

	claimed, err := svc.Claim(context.Background(), created.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, claimed.ResponsibleID)
	assert.Equal(t, "u1", *claimed.ResponsibleID)

	// The second claim loses, and ownership does not move.
	_, err = svc.Claim(context.Background(), created.ID, "u2")
	assert.ErrorIs(t, err, repositories.ErrAlreadyClaimed)

	after, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", *after.ResponsibleID)
}

func TestClientUpdateStatusValidation(t *testing.T) {
	svc := NewClientService(newFakeClientRepo(), realtime.NewFeed())

	created, err := svc.Create(context.Background(), &models.Client{Name: "x"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, "Fechado")
	assert.Error(t, err)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, models.ClientInContact)
	require.NoError(t, err)
	assert.Equal(t, models.ClientInContact, updated.Status)
}
