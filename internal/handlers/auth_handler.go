package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"gestor/internal/middleware"
	"gestor/internal/models"
	"gestor/internal/repositories"
	"gestor/internal/services"
)

const accessTokenTTL = 15 * time.Minute

type AuthHandler struct {
	auth   *services.AuthService
	users  repositories.UserRepository
	email  services.EmailService
	resets services.PasswordResetService
	jwtKey []byte
}

func NewAuthHandler(
	auth *services.AuthService,
	users repositories.UserRepository,
	email services.EmailService,
	resets services.PasswordResetService,
	jwtKey []byte,
) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, email: email, resets: resets, jwtKey: jwtKey}
}

func (h *AuthHandler) signAccessToken(userID, role string) (string, error) {
	claims := &middleware.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtKey)
}

// roleFor looks up the profile role; a fresh account has no profile yet and
// gets an empty role until onboarding completes.
func (h *AuthHandler) roleFor(c *gin.Context, userID string) string {
	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if !repositories.IsNotFound(err) {
			log.Printf("[auth][warn] role lookup for %s: %v", userID, err)
		}
		return ""
	}
	return u.Role
}

// @Summary      Criar conta
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][register][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if repositories.IsDuplicateKey(err) {
			log.Printf("[auth][register][dup] email=%q", req.Email)
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		log.Printf("[auth][register][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.signAccessToken(account.ID, "")
	if err != nil {
		log.Printf("[auth][register][err] sign token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	// Welcome mail is best effort.
	name := req.Name
	if name == "" {
		name = account.Email
	}
	if err := h.email.SendWelcomeEmail(account.Email, name); err != nil {
		log.Printf("[auth][register][warn] welcome email to %q: %v", account.Email, err)
	}

	log.Printf("[auth][register][ok] id=%s email=%q", account.ID, account.Email)
	c.JSON(http.StatusCreated, gin.H{
		"user":         account,
		"access_token": token,
	})
}

// @Summary      Entrar
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body  models.LoginRequest  true  "Credenciais"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][login][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.TrimSpace(req.Email)
	log.Printf("[auth][login] attempt email=%q", email)

	account, refresh, err := h.auth.SignIn(c.Request.Context(), email, req.Password)
	if err != nil {
		log.Printf("[auth][login][err] email=%q: %v", email, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	role := h.roleFor(c, account.ID)
	token, err := h.signAccessToken(account.ID, role)
	if err != nil {
		log.Printf("[auth][login][err] sign token for %s: %v", account.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	log.Printf("[auth][login][ok] id=%s role=%q", account.ID, role)
	c.JSON(http.StatusOK, gin.H{
		"user": account,
		"tokens": gin.H{
			"access_token":  token,
			"refresh_token": refresh,
		},
	})
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, newRT, err := h.auth.Rotate(c.Request.Context(), req.RefreshToken)
	if err != nil {
		log.Printf("[auth][refresh][err] %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	role := h.roleFor(c, account.ID)
	token, err := h.signAccessToken(account.ID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  token,
		"refresh_token": newRT,
	})
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}
	if err := h.auth.SignOut(c.Request.Context(), userID); err != nil {
		log.Printf("[auth][logout][err] id=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign out"})
		return
	}
	log.Printf("[auth][logout][ok] id=%s", userID)
	c.Status(http.StatusNoContent)
}

// POST /auth/password-reset/request
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.resets.Request(c.Request.Context(), req.Email); err != nil {
		log.Printf("[auth][reset][err] request for %q: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to request password reset"})
		return
	}
	// Same answer whether or not the account exists.
	c.JSON(http.StatusOK, gin.H{"message": "Se o email existir, enviámos instruções de redefinição."})
}

// POST /auth/password-reset/confirm
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.resets.Confirm(c.Request.Context(), req.Token, req.Password); err != nil {
		log.Printf("[auth][reset][err] confirm: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Senha redefinida com sucesso."})
}
