package livecache

import (
	"context"

	"gestor/internal/models"
	"gestor/internal/realtime"
	"gestor/internal/repositories"
)

// Caches bundles the five entity collections the views read from.
type Caches struct {
	Tasks        *Collection[models.Task]
	Clients      *Collection[models.Client]
	Events       *Collection[models.CalendarEvent]
	Transactions *Collection[models.Transaction]
	Team         *Collection[models.TeamMember]
}

// NewCaches wires one collection per entity. teamFetch is the derived
// users+metrics projection (see services.TeamService).
func NewCaches(
	sess SessionChecker,
	feed *realtime.Feed,
	tasks repositories.TaskRepository,
	clients repositories.ClientRepository,
	events repositories.EventRepository,
	transactions repositories.TransactionRepository,
	teamFetch FetchFunc[models.TeamMember],
) *Caches {
	return &Caches{
		Tasks: NewCollection("tasks", func(ctx context.Context) ([]models.Task, error) {
			return tasks.FindAll(ctx, models.TaskFilter{})
		}, sess, feed, "tasks"),
		Clients: NewCollection("clients", func(ctx context.Context) ([]models.Client, error) {
			return clients.FindAll(ctx)
		}, sess, feed, "clients"),
		Events: NewCollection("events", func(ctx context.Context) ([]models.CalendarEvent, error) {
			return events.FindAll(ctx)
		}, sess, feed, "calendar_events"),
		Transactions: NewCollection("transactions", func(ctx context.Context) ([]models.Transaction, error) {
			return transactions.FindAll(ctx)
		}, sess, feed, "transactions"),
		Team: NewCollection("team", teamFetch, sess, feed, "users"),
	}
}

// RefreshAll refetches every collection. The session manager calls this when
// a session becomes ready, since the collections skip their initial fetch
// while nobody is signed in.
func (c *Caches) RefreshAll(ctx context.Context) {
	c.Tasks.Refresh(ctx)
	c.Clients.Refresh(ctx)
	c.Events.Refresh(ctx)
	c.Transactions.Refresh(ctx)
	c.Team.Refresh(ctx)
}

// Close tears down every collection.
func (c *Caches) Close() {
	c.Tasks.Close()
	c.Clients.Close()
	c.Events.Close()
	c.Transactions.Close()
	c.Team.Close()
}
