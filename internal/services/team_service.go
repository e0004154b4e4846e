package services

import (
	"context"

	"gestor/internal/models"
	"gestor/internal/repositories"
)

// TeamService computes the performance projection: the user directory joined
// with task and client aggregates. Nothing here is persisted; the projection
// is rebuilt on every fetch.
type TeamService interface {
	BuildTeam(ctx context.Context) ([]models.TeamMember, error)
}

type teamService struct {
	users   repositories.UserRepository
	tasks   repositories.TaskRepository
	clients repositories.ClientRepository
}

func NewTeamService(
	users repositories.UserRepository,
	tasks repositories.TaskRepository,
	clients repositories.ClientRepository,
) TeamService {
	return &teamService{users: users, tasks: tasks, clients: clients}
}

const teamPhonePlaceholder = "+258 8X XXX XXXX"

func (s *teamService) BuildTeam(ctx context.Context) ([]models.TeamMember, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.FindAll(ctx, models.TaskFilter{})
	if err != nil {
		return nil, err
	}
	ownership, err := s.clients.ListOwnership(ctx)
	if err != nil {
		return nil, err
	}

	team := make([]models.TeamMember, 0, len(users))
	for _, u := range users {
		var completed, pending, total int
		for _, t := range tasks {
			if t.ResponsibleID == nil || *t.ResponsibleID != u.ID {
				continue
			}
			total++
			if t.Status == models.StatusDone {
				completed++
			} else {
				pending++
			}
		}

		// 105 XP per delivered task plus a small participation bonus.
		xp := completed*105 + pending*5
		level := xp/1000 + 1

		badges := []string{"Membro da Equipe"}
		if level > 2 {
			badges = []string{"Elite Member", "Top Performer"}
		}

		var qualityScore, speedScore int
		if total > 0 {
			qualityScore = completed * 100 / total
			speedScore = completed * 110 / total
			if speedScore > 100 {
				speedScore = 100
			}
		}

		clientNames := ownership[u.ID]
		if clientNames == nil {
			clientNames = []string{}
		}

		team = append(team, models.TeamMember{
			ID:     u.ID,
			Name:   u.Name,
			Role:   u.Role,
			Email:  u.Email,
			Phone:  teamPhonePlaceholder,
			Avatar: u.Avatar,
			Level:  level,
			XP:     xp,
			Badges: badges,
			Metrics: models.TeamMetrics{
				Completed:       completed,
				Pending:         pending,
				Missed:          0,
				ObjectivesMet:   completed,
				TotalObjectives: total,
				KPIs: []models.TeamKPI{
					{Name: "Qualidade de Entrega", Score: qualityScore},
					{Name: "Agilidade de Resposta", Score: speedScore},
				},
				Clients: clientNames,
			},
		})
	}
	return team, nil
}
