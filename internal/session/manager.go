// Package session orchestrates the gap between "auth succeeded" and "profile
// row exists". Sign-up creates only the auth identity; the profile row is
// written by onboarding, so a valid session can reference a missing profile.
// The manager resolves that race with bounded retries, hard timeouts, and an
// onboarding fallback, and ties the deadline notifier to session lifetime.
package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gestor/internal/models"
	"gestor/internal/realtime"
	"gestor/internal/repositories"
	"gestor/internal/services"
)

// State of one user's session/profile pair.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateChecking        State = "checking"
	StateOnboarding      State = "onboarding"
	StateReady           State = "ready"
)

// DefaultAvatar is used when onboarding supplies no avatar.
const DefaultAvatar = "https://ui-avatars.com/api/?background=0D8ABC&color=fff&name=User"

const (
	profileLoadTimeout = 5 * time.Second
	loadingValve       = 20 * time.Second
	identityAttempts   = 3
	identityRetryDelay = time.Second
)

type Manager struct {
	users    repositories.UserRepository
	auth     *services.AuthService
	notifier *services.DeadlineNotifier
	feed     *realtime.Feed

	// Overridable in tests.
	profileTimeout time.Duration
	valve          time.Duration
	retryDelay     time.Duration

	mu       sync.Mutex
	states   map[string]State
	profiles map[string]*models.User

	events <-chan services.AuthEvent
	unsub  func()
	wg     sync.WaitGroup

	readyHook func() // invoked whenever a session becomes ready
}

func NewManager(
	users repositories.UserRepository,
	auth *services.AuthService,
	notifier *services.DeadlineNotifier,
	feed *realtime.Feed,
) *Manager {
	return &Manager{
		users:          users,
		auth:           auth,
		notifier:       notifier,
		feed:           feed,
		profileTimeout: profileLoadTimeout,
		valve:          loadingValve,
		retryDelay:     identityRetryDelay,
		states:         make(map[string]State),
		profiles:       make(map[string]*models.User),
	}
}

// SetReadyHook registers a callback run on every session that reaches Ready.
// The entity caches hang their deferred initial fetch off it.
func (m *Manager) SetReadyHook(hook func()) {
	m.readyHook = hook
}

// Start subscribes to the auth event stream and reacts to transitions.
func (m *Manager) Start() {
	m.events, m.unsub = m.auth.Subscribe()
	m.wg.Add(1)
	go m.run()
}

// Close detaches from the auth stream and stops the notifier.
func (m *Manager) Close() {
	if m.unsub != nil {
		m.unsub()
	}
	m.wg.Wait()
	m.notifier.Stop()
}

func (m *Manager) run() {
	defer m.wg.Done()
	for e := range m.events {
		switch e.Type {
		case services.AuthSignedIn:
			// Only load when no profile is cached yet (avoids redundant
			// reloads on repeated sign-in events).
			m.mu.Lock()
			_, cached := m.profiles[e.UserID]
			m.mu.Unlock()
			if cached {
				log.Printf("[session] %s already ready, skipping reload", e.UserID)
				continue
			}
			m.LoadProfile(e.UserID)
		case services.AuthSignedOut:
			m.dropSession(e.UserID)
		}
	}
}

// LoadProfile fetches the user's profile row with a hard timeout. A found
// row makes the session Ready and starts the notifier; a missing row, a
// fetch error, or a timeout all route to Onboarding — never a hang.
func (m *Manager) LoadProfile(userID string) State {
	m.setState(userID, StateChecking)

	// Safety valve: whatever happens below, Checking cannot outlive the
	// valve window.
	valve := time.AfterFunc(m.valve, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.states[userID] == StateChecking {
			log.Printf("[session][warn] load for %s exceeded %s, forcing onboarding", userID, m.valve)
			m.states[userID] = StateOnboarding
		}
	})
	defer valve.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), m.profileTimeout)
	defer cancel()

	u, err := m.users.GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			log.Printf("[session] no profile for %s, needs onboarding", userID)
		} else {
			log.Printf("[session][err] profile load for %s: %v", userID, err)
		}
		m.setState(userID, StateOnboarding)
		return StateOnboarding
	}

	m.mu.Lock()
	m.states[userID] = StateReady
	m.profiles[userID] = u
	m.mu.Unlock()

	m.sessionReady()
	return StateReady
}

func (m *Manager) sessionReady() {
	m.notifier.Start()
	if m.readyHook != nil {
		m.readyHook()
	}
}

// CompleteOnboarding writes the profile row for an authenticated account.
// The identity may not be readable immediately after sign-up, so it is
// resolved with bounded retries; a duplicate-key insert means the profile
// already exists and is treated as success; a role/name mismatch after the
// verification read gets a corrective update.
func (m *Manager) CompleteOnboarding(ctx context.Context, userID, name, role, avatar string) (*models.User, error) {
	var account *models.Account
	for i := 0; i < identityAttempts; i++ {
		a, err := m.auth.GetIdentity(ctx, userID)
		if err == nil {
			account = a
			break
		}
		log.Printf("[session] attempt %d: identity %s not available yet: %v", i+1, userID, err)
		select {
		case <-time.After(m.retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if account == nil {
		return nil, fmt.Errorf("não foi possível obter o usuário autenticado, faça login novamente")
	}

	if strings.TrimSpace(avatar) == "" {
		avatar = DefaultAvatar
	}
	u := &models.User{
		ID:     account.ID,
		Email:  account.Email,
		Name:   name,
		Role:   role,
		Avatar: avatar,
	}
	if err := m.users.Create(ctx, u); err != nil {
		if !repositories.IsDuplicateKey(err) {
			return nil, err
		}
		// Profile exists but was not loaded (insert raced with another
		// session); fall through to the verification read.
		log.Printf("[session][warn] profile for %s already exists, loading it", userID)
	}

	verified, err := m.users.GetByID(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("profile verification failed after insert: %w", err)
	}

	if verified.Role != role || verified.Name != name {
		verified.Role = role
		verified.Name = name
		verified.Avatar = avatar
		if err := m.users.Update(ctx, verified); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	m.states[userID] = StateReady
	m.profiles[userID] = verified
	m.mu.Unlock()

	m.feed.Publish(realtime.Event{Table: "users", Action: realtime.ActionInsert, RowID: userID})
	m.sessionReady()
	return verified, nil
}

func (m *Manager) dropSession(userID string) {
	m.mu.Lock()
	delete(m.states, userID)
	delete(m.profiles, userID)
	remaining := len(m.profiles)
	m.mu.Unlock()

	log.Printf("[session] %s signed out, %d session(s) remaining", userID, remaining)
	if remaining == 0 && !m.auth.HasSession() {
		m.notifier.Stop()
	}
}

// StateOf reports the session state for a user.
func (m *Manager) StateOf(userID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.states[userID]; ok {
		return s
	}
	return StateUnauthenticated
}

// Profile returns the cached profile, if the session is Ready.
func (m *Manager) Profile(userID string) (*models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.profiles[userID]
	return u, ok
}

func (m *Manager) setState(userID string, s State) {
	m.mu.Lock()
	m.states[userID] = s
	m.mu.Unlock()
}
