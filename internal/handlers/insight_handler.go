package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gestor/internal/livecache"
	"gestor/internal/models"
	"gestor/internal/services"
)

// InsightHandler feeds the cached aggregates to the model and returns its
// commentary. Always answers 200: failures degrade to the fallback text.
type InsightHandler struct {
	insights *services.InsightService
	caches   *livecache.Caches
}

func NewInsightHandler(insights *services.InsightService, caches *livecache.Caches) *InsightHandler {
	return &InsightHandler{insights: insights, caches: caches}
}

// GET /insights/dashboard
func (h *InsightHandler) Dashboard(c *gin.Context) {
	tasks, _, _ := h.caches.Tasks.Snapshot()
	clients, _, _ := h.caches.Clients.Snapshot()
	transactions, _, _ := h.caches.Transactions.Snapshot()

	var open, done int
	for _, t := range tasks {
		if t.Status == models.StatusDone {
			done++
		} else {
			open++
		}
	}

	var activeLeads int
	for _, cl := range clients {
		if cl.Status != models.ClientConverted && cl.Status != models.ClientLost {
			activeLeads++
		}
	}

	var balance float64
	for _, t := range transactions {
		if t.Type == models.TransactionIncome {
			balance += t.Value
		} else {
			balance -= t.Value
		}
	}

	commentary := h.insights.DashboardCommentary(c.Request.Context(), open, done, activeLeads, balance)
	c.JSON(http.StatusOK, gin.H{
		"commentary":  commentary,
		"openTasks":   open,
		"doneTasks":   done,
		"activeLeads": activeLeads,
		"balance":     balance,
	})
}
