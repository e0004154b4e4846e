package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gestor/internal/livecache"
	"gestor/internal/models"
	"gestor/internal/repositories"
	"gestor/internal/services"
)

type TaskHandler struct {
	service services.TaskService
	caches  *livecache.Caches
}

func NewTaskHandler(service services.TaskService, caches *livecache.Caches) *TaskHandler {
	return &TaskHandler{service: service, caches: caches}
}

type taskRequest struct {
	Title            string                 `json:"title" binding:"required"`
	Project          string                 `json:"project"`
	Status           models.TaskStatus      `json:"status"`
	Priority         models.TaskPriority    `json:"priority"`
	ResponsibleID    *string                `json:"responsibleId"`
	StartDate        *string                `json:"startDate"` // RFC3339
	DueDate          *string                `json:"dueDate"`   // RFC3339
	Objectives       []models.TaskObjective `json:"objectives"`
	CompletionReport *string                `json:"completionReport"`
	ManagerFeedback  *string                `json:"managerFeedback"`
}

func (r *taskRequest) toModel(c *gin.Context, tag string) (*models.Task, bool) {
	parse := func(field string, v *string) (*time.Time, bool) {
		if v == nil || *v == "" {
			return nil, true
		}
		t, err := time.Parse(time.RFC3339, *v)
		if err != nil {
			log.Printf("[task][%s][err] invalid %s=%q: %v", tag, field, *v, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field + " (RFC3339)"})
			return nil, false
		}
		return &t, true
	}
	start, ok := parse("startDate", r.StartDate)
	if !ok {
		return nil, false
	}
	due, ok := parse("dueDate", r.DueDate)
	if !ok {
		return nil, false
	}
	return &models.Task{
		Title:            r.Title,
		Project:          r.Project,
		Status:           r.Status,
		Priority:         r.Priority,
		ResponsibleID:    r.ResponsibleID,
		StartDate:        start,
		DueDate:          due,
		Objectives:       r.Objectives,
		CompletionReport: r.CompletionReport,
		ManagerFeedback:  r.ManagerFeedback,
	}, true
}

// @Summary      Criar tarefa
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, role := getUserAndRole(c)
	log.Printf("[task][create] call by userID=%s role=%q", userID, role)

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, ok := req.toModel(c, "create")
	if !ok {
		return
	}

	created, err := h.service.Create(c.Request.Context(), task, userID)
	if err != nil {
		log.Printf("[task][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}
	h.refreshCache(c)
	log.Printf("[task][create][ok] id=%s title=%q", created.ID, created.Title)
	c.JSON(http.StatusCreated, created)
}

// GET /tasks
func (h *TaskHandler) GetAll(c *gin.Context) {
	// Filtered queries hit the store; the plain list is served from cache.
	if c.Request.URL.RawQuery != "" {
		var filter models.TaskFilter
		if v, ok := c.GetQuery("responsible_id"); ok {
			filter.ResponsibleID = &v
		}
		if v, ok := c.GetQuery("status"); ok {
			st := models.TaskStatus(v)
			filter.Status = &st
		}
		if v, ok := c.GetQuery("project"); ok {
			filter.Project = &v
		}
		tasks, err := h.service.GetAll(c.Request.Context(), filter)
		if err != nil {
			log.Printf("[task][list][err] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tasks"})
			return
		}
		c.JSON(http.StatusOK, snapshotResponse(tasks, false, ""))
		return
	}

	items, loading, errMsg := h.caches.Tasks.Snapshot()
	c.JSON(http.StatusOK, snapshotResponse(items, loading, errMsg))
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if repositories.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		log.Printf("[task][getByID][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	userID, role := getUserAndRole(c)
	id := c.Param("id")
	log.Printf("[task][update] call by userID=%s role=%q id=%s", userID, role, id)

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	update, ok := req.toModel(c, "update")
	if !ok {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, update)
	if err != nil {
		if repositories.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		log.Printf("[task][update][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}
	h.refreshCache(c)
	log.Printf("[task][update][ok] id=%s", id)
	c.JSON(http.StatusOK, updated)
}

// POST /tasks/:id/status { "to": "Done" }
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id := c.Param("id")

	var body struct {
		To models.TaskStatus `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, body.To)
	if err != nil {
		if repositories.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		log.Printf("[task][status][err] id=%s to=%q by=%s: %v", id, body.To, userID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.refreshCache(c)
	log.Printf("[task][status][ok] id=%s new=%q", id, body.To)
	c.JSON(http.StatusOK, updated)
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[task][delete][err] id=%s by=%s: %v", id, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}
	h.refreshCache(c)
	log.Printf("[task][delete][ok] id=%s", id)
	c.Status(http.StatusNoContent)
}

// refreshCache makes mutations read-after-write for the list endpoints.
func (h *TaskHandler) refreshCache(c *gin.Context) {
	if err := h.caches.Tasks.Refresh(c.Request.Context()); err != nil {
		log.Printf("[task][cache][warn] refresh: %v", err)
	}
}
