package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestor/internal/models"
)

func TestBuildTeamAggregates(t *testing.T) {
	users := newFakeUserRepo()
	tasks := newFakeTaskRepo()
	clients := newFakeClientRepo()
	svc := NewTeamService(users, tasks, clients)

	require.NoError(t, users.Create(context.Background(), &models.User{ID: "u1", Name: "Carla", Role: "Desenvolvedor"}))

	u1 := "u1"
	for i, st := range []models.TaskStatus{models.StatusDone, models.StatusDone, models.StatusInProgress} {
		require.NoError(t, tasks.Store(context.Background(), &models.Task{
			ID:            string(rune('a' + i)),
			Title:         "t",
			Status:        st,
			ResponsibleID: &u1,
		}))
	}
	require.NoError(t, clients.Create(context.Background(), &models.Client{ID: "c1", Name: "Padaria Sol", ResponsibleID: &u1}))

	team, err := svc.BuildTeam(context.Background())
	require.NoError(t, err)
	require.Len(t, team, 1)

	m := team[0]
	assert.Equal(t, 2*105+1*5, m.XP)
	assert.Equal(t, 1, m.Level)
	assert.Equal(t, 2, m.Metrics.Completed)
	assert.Equal(t, 1, m.Metrics.Pending)
	assert.Equal(t, 3, m.Metrics.TotalObjectives)
	assert.Equal(t, []string{"Padaria Sol"}, m.Metrics.Clients)

	require.Len(t, m.Metrics.KPIs, 2)
	assert.Equal(t, "Qualidade de Entrega", m.Metrics.KPIs[0].Name)
	assert.Equal(t, 66, m.Metrics.KPIs[0].Score)
	assert.Equal(t, "Agilidade de Resposta", m.Metrics.KPIs[1].Name)
	assert.Equal(t, 73, m.Metrics.KPIs[1].Score)
}

func TestBuildTeamNoTasks(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewTeamService(users, newFakeTaskRepo(), newFakeClientRepo())

	require.NoError(t, users.Create(context.Background(), &models.User{ID: "u1", Name: "Novo"}))

	team, err := svc.BuildTeam(context.Background())
	require.NoError(t, err)
	require.Len(t, team, 1)

	m := team[0]
	assert.Zero(t, m.XP)
	assert.Equal(t, 1, m.Level)
	assert.Equal(t, []string{"Membro da Equipe"}, m.Badges)
	assert.Empty(t, m.Metrics.Clients)
	assert.NotNil(t, m.Metrics.Clients)
}
