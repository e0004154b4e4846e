package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gestor/internal/models"
	"gestor/internal/repositories"
	"gestor/internal/utils"
)

type AuthEventType string

const (
	AuthSignedIn  AuthEventType = "signed_in"
	AuthSignedOut AuthEventType = "signed_out"
)

// AuthEvent is pushed to subscribers on every auth-state transition; the
// session manager drives profile loading off this stream.
type AuthEvent struct {
	Type   AuthEventType
	UserID string
}

const refreshTokenTTL = 30 * 24 * time.Hour

// AuthService owns credentials, refresh rotation, and the auth-state event
// stream. It also tracks which accounts currently hold a session, which
// gates the caches' initial fetch.
type AuthService struct {
	accounts repositories.AccountRepository

	mu       sync.RWMutex
	subs     map[chan AuthEvent]struct{}
	sessions map[string]struct{}
}

func NewAuthService(accounts repositories.AccountRepository) *AuthService {
	return &AuthService{
		accounts: accounts,
		subs:     make(map[chan AuthEvent]struct{}),
		sessions: make(map[string]struct{}),
	}
}

func (s *AuthService) HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (s *AuthService) CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// SignUp creates the authentication identity only. The profile row is
// written later by onboarding, so a fresh account has a session but no
// profile — exactly the race the session manager resolves.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	hash, err := s.HashPassword(strings.TrimSpace(password))
	if err != nil {
		return nil, err
	}
	a := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	s.registerSession(a.ID)
	s.publish(AuthEvent{Type: AuthSignedIn, UserID: a.ID})
	return a, nil
}

// SignIn validates credentials and rotates the stored refresh token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.Account, string, error) {
	a, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, "", err
	}
	if err := s.CheckPassword(a.PasswordHash, strings.TrimSpace(password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}

	rt, err := utils.NewRefreshToken(32)
	if err != nil {
		return nil, "", err
	}
	exp := sql.NullTime{Time: time.Now().Add(refreshTokenTTL), Valid: true}
	if err := s.accounts.UpdateRefresh(ctx, a.ID, rt, exp); err != nil {
		return nil, "", err
	}

	s.registerSession(a.ID)
	s.publish(AuthEvent{Type: AuthSignedIn, UserID: a.ID})
	return a, rt, nil
}

// Rotate exchanges a valid refresh token for a fresh one.
func (s *AuthService) Rotate(ctx context.Context, oldToken string) (*models.Account, string, error) {
	a, err := s.accounts.GetByRefreshToken(ctx, strings.TrimSpace(oldToken))
	if err != nil {
		return nil, "", fmt.Errorf("invalid refresh token")
	}
	if a.RefreshExpiresAt == nil || time.Now().After(*a.RefreshExpiresAt) {
		return nil, "", fmt.Errorf("refresh token expired")
	}
	rt, err := utils.NewRefreshToken(32)
	if err != nil {
		return nil, "", err
	}
	exp := sql.NullTime{Time: time.Now().Add(refreshTokenTTL), Valid: true}
	if err := s.accounts.UpdateRefresh(ctx, a.ID, rt, exp); err != nil {
		return nil, "", err
	}
	return a, rt, nil
}

// SignOut revokes the refresh token and announces the transition. Per-user
// background state (caches, notifier) is torn down by the session manager.
func (s *AuthService) SignOut(ctx context.Context, userID string) error {
	if err := s.accounts.RevokeRefresh(ctx, userID); err != nil {
		log.Printf("[auth][signout][warn] revoke refresh for %s: %v", userID, err)
	}
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	s.publish(AuthEvent{Type: AuthSignedOut, UserID: userID})
	return nil
}

// GetIdentity resolves the authenticated account by id.
func (s *AuthService) GetIdentity(ctx context.Context, userID string) (*models.Account, error) {
	return s.accounts.GetByID(ctx, userID)
}

// HasSession reports whether any account currently holds a session.
func (s *AuthService) HasSession() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions) > 0
}

func (s *AuthService) registerSession(userID string) {
	s.mu.Lock()
	s.sessions[userID] = struct{}{}
	s.mu.Unlock()
}

// Subscribe returns a channel of auth events and an unsubscribe func.
func (s *AuthService) Subscribe() (<-chan AuthEvent, func()) {
	ch := make(chan AuthEvent, 16)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *AuthService) publish(e AuthEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subs {
		select {
		case ch <- e:
		default:
			log.Printf("[auth][warn] dropped auth event %s for %s (slow subscriber)", e.Type, e.UserID)
		}
	}
}
