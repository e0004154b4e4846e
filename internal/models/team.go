package models

// TeamKPI is a named score shown on the performance dashboard.
type TeamKPI struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type TeamMetrics struct {
	Completed       int       `json:"completed"`
	Pending         int       `json:"pending"`
	Missed          int       `json:"missed"`
	ObjectivesMet   int       `json:"objectivesMet"`
	TotalObjectives int       `json:"totalObjectives"`
	KPIs            []TeamKPI `json:"kpis"`
	Clients         []string  `json:"clients"`
}

// TeamMember is a read-only projection over users + task/client aggregates.
// It is recomputed on every fetch and never persisted.
type TeamMember struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Role    string      `json:"role"`
	Email   string      `json:"email"`
	Phone   string      `json:"phone"`
	Avatar  string      `json:"avatar"`
	Level   int         `json:"level"`
	XP      int         `json:"xp"`
	Badges  []string    `json:"badges"`
	Metrics TeamMetrics `json:"metrics"`
}
