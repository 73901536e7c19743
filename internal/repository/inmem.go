package repository

import (
	"sync"
	"time"

	"github.com/ezapply/ezapply/internal/model"
	"github.com/google/uuid"
)

// In-memory implementations backing service and handler tests. They mirror
// the SQL repositories' semantics, including the conditional updates.

type InMemUserRepository struct {
	mu    sync.Mutex
	users map[string]model.User
}

func NewInMemUserRepository() *InMemUserRepository {
	return &InMemUserRepository{users: make(map[string]model.User)}
}

func (r *InMemUserRepository) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *InMemUserRepository) ByID(id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *InMemUserRepository) ByEmail(email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *InMemUserRepository) Update(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *InMemUserRepository) SetEmailVerified(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.EmailVerified = true
	r.users[id] = u
	return nil
}

func (r *InMemUserRepository) StampVerificationSent(id string, prev *time.Time, sentAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return false, nil
	}
	switch {
	case prev == nil && u.LastVerificationEmailSent != nil:
		return false, nil
	case prev != nil && (u.LastVerificationEmailSent == nil || !u.LastVerificationEmailSent.Equal(*prev)):
		return false, nil
	}
	u.LastVerificationEmailSent = &sentAt
	r.users[id] = u
	return true, nil
}

func (r *InMemUserRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type InMemProfileRepository struct {
	mu       sync.Mutex
	profiles map[string]model.Profile
}

func NewInMemProfileRepository() *InMemProfileRepository {
	return &InMemProfileRepository{profiles: make(map[string]model.Profile)}
}

func (r *InMemProfileRepository) Create(profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.LastReset.IsZero() {
		profile.LastReset = time.Now()
	}
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *InMemProfileRepository) ByID(id string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

func (r *InMemProfileRepository) ByUserID(userID string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.profiles {
		if p.UserID == userID {
			profile := p
			return &profile, nil
		}
	}
	return nil, ErrProfileNotFound
}

func (r *InMemProfileRepository) Update(profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.ID]; !ok {
		return ErrProfileNotFound
	}
	profile.LastReset = time.Now()
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *InMemProfileRepository) DeleteByUserID(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.profiles {
		if p.UserID == userID {
			delete(r.profiles, id)
		}
	}
	return nil
}

type InMemTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]model.Token
}

func NewInMemTokenRepository() *InMemTokenRepository {
	return &InMemTokenRepository{tokens: make(map[string]model.Token)}
}

func (r *InMemTokenRepository) Create(token *model.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	r.tokens[token.Token] = *token
	return nil
}

func (r *InMemTokenRepository) ConsumeToken(token string) (*model.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok || t.UsedAt != nil || !t.ExpiresAt.After(time.Now()) {
		return nil, ErrTokenNotFound
	}
	now := time.Now()
	t.UsedAt = &now
	r.tokens[token] = t
	return &t, nil
}

func (r *InMemTokenRepository) DeleteByUserAndType(userID, tokenType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, t := range r.tokens {
		if t.UserID == userID && t.Type == tokenType && t.UsedAt == nil {
			delete(r.tokens, key)
		}
	}
	return nil
}
