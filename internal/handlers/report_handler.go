package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gestor/internal/models"
	"gestor/internal/pdf"
	"gestor/internal/repositories"
)

type ReportHandler struct {
	transactions repositories.TransactionRepository
	users        repositories.UserRepository
	generator    pdf.Generator
}

func NewReportHandler(
	transactions repositories.TransactionRepository,
	users repositories.UserRepository,
	generator pdf.Generator,
) *ReportHandler {
	return &ReportHandler{transactions: transactions, users: users, generator: generator}
}

// GET /reports/ledger?from=2026-01-01&to=2026-01-31
func (h *ReportHandler) LedgerPDF(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	parseDay := func(key string, fallback time.Time) (time.Time, bool) {
		v, ok := c.GetQuery(key)
		if !ok || v == "" {
			return fallback, true
		}
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key + " (YYYY-MM-DD)"})
			return time.Time{}, false
		}
		return t, true
	}

	now := time.Now()
	from, ok := parseDay("from", now.AddDate(0, -1, 0))
	if !ok {
		return
	}
	to, ok := parseDay("to", now)
	if !ok {
		return
	}

	all, err := h.transactions.FindAll(c.Request.Context())
	if err != nil {
		log.Printf("[report][ledger][err] fetch: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}
	var filtered []models.Transaction
	for _, t := range all {
		if t.Date.Before(from) || t.Date.After(to.AddDate(0, 0, 1)) {
			continue
		}
		filtered = append(filtered, t)
	}

	generatedBy := models.SystemCreator
	if u, err := h.users.GetByID(c.Request.Context(), userID); err == nil {
		generatedBy = u.Name
	}

	path, err := h.generator.GenerateLedgerReport(pdf.LedgerReportData{
		Transactions: filtered,
		From:         from,
		To:           to,
		GeneratedBy:  generatedBy,
	})
	if err != nil {
		log.Printf("[report][ledger][err] generate: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}

	log.Printf("[report][ledger][ok] by=%s entries=%d file=%s", userID, len(filtered), path)
	c.JSON(http.StatusOK, gin.H{"file": path, "entries": len(filtered)})
}
