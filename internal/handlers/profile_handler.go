package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gestor/internal/livecache"
	"gestor/internal/realtime"
	"gestor/internal/repositories"
	"gestor/internal/session"
	"gestor/internal/storage"
)

type ProfileHandler struct {
	manager *session.Manager
	users   repositories.UserRepository
	avatars *storage.AvatarStore
	feed    *realtime.Feed
	caches  *livecache.Caches
}

func NewProfileHandler(
	manager *session.Manager,
	users repositories.UserRepository,
	avatars *storage.AvatarStore,
	feed *realtime.Feed,
	caches *livecache.Caches,
) *ProfileHandler {
	return &ProfileHandler{manager: manager, users: users, avatars: avatars, feed: feed, caches: caches}
}

// GET /profile — session state plus the profile when one exists.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	state := h.manager.StateOf(userID)
	if state == session.StateUnauthenticated || state == session.StateChecking {
		// Session exists but the manager has not resolved it yet (or the
		// server restarted); resolve synchronously.
		state = h.manager.LoadProfile(userID)
	}

	resp := gin.H{"state": state}
	if u, ok := h.manager.Profile(userID); ok {
		resp["profile"] = u
	}
	c.JSON(http.StatusOK, resp)
}

// POST /profile/onboarding { "name": "...", "role": "...", "avatar": "..." }
func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	log.Printf("[profile][onboarding] call by userID=%s", userID)

	var req struct {
		Name   string `json:"name" binding:"required"`
		Role   string `json:"role" binding:"required"`
		Avatar string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[profile][onboarding][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.manager.CompleteOnboarding(c.Request.Context(), userID, req.Name, req.Role, req.Avatar)
	if err != nil {
		log.Printf("[profile][onboarding][err] user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.refreshTeam(c)
	log.Printf("[profile][onboarding][ok] user=%s role=%q", userID, u.Role)
	c.JSON(http.StatusOK, u)
}

// PUT /profile
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	var req struct {
		Name           string `json:"name" binding:"required"`
		Role           string `json:"role" binding:"required"`
		TelegramChatID int64  `json:"telegramChatId"`
		AllowTelegram  bool   `json:"allowTelegram"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		log.Printf("[profile][update][err] get user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	u.Name = req.Name
	u.Role = req.Role
	u.TelegramChatID = req.TelegramChatID
	u.AllowTelegram = req.AllowTelegram

	if err := h.users.Update(c.Request.Context(), u); err != nil {
		log.Printf("[profile][update][err] save user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	h.feed.Publish(realtime.Event{Table: "users", Action: realtime.ActionUpdate, RowID: userID})
	h.refreshTeam(c)
	log.Printf("[profile][update][ok] user=%s", userID)
	c.JSON(http.StatusOK, u)
}

// POST /profile/avatar — multipart upload, field "avatar".
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		log.Printf("[profile][avatar][err] open upload user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer src.Close()

	url, err := h.avatars.Save(userID, file.Header.Get("Content-Type"), file.Size, src)
	if err != nil {
		log.Printf("[profile][avatar][err] save user=%s: %v", userID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.UpdateAvatar(c.Request.Context(), userID, url); err != nil {
		log.Printf("[profile][avatar][err] persist user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update avatar"})
		return
	}

	h.feed.Publish(realtime.Event{Table: "users", Action: realtime.ActionUpdate, RowID: userID})
	h.refreshTeam(c)
	log.Printf("[profile][avatar][ok] user=%s url=%s", userID, url)
	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

func (h *ProfileHandler) refreshTeam(c *gin.Context) {
	if err := h.caches.Team.Refresh(c.Request.Context()); err != nil {
		log.Printf("[profile][cache][warn] team refresh: %v", err)
	}
}
