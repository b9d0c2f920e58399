// Copyright (c) 2026 AccountHub. All rights reserved.

package users_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/joaofst/accounthub/internal/platform/apperr"
	"github.com/joaofst/accounthub/internal/platform/mailer"
	"github.com/joaofst/accounthub/internal/platform/sec"
	"github.com/joaofst/accounthub/internal/users"
)

// # In-Memory Fakes

// memoryRepository is an in-memory users.Repository with the same error
// mapping contract as the PostgreSQL implementation.
type memoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*users.User
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{nextID: 1, accounts: make(map[int64]*users.User)}
}

func (repo *memoryRepository) FindByID(_ context.Context, id int64) (*users.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.accounts[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repo *memoryRepository) FindByEmail(_ context.Context, email string) (*users.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.accounts {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryRepository) List(_ context.Context, skip, limit int) ([]*users.User, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	ordered := make([]*users.User, 0, len(repo.accounts))
	for id := int64(1); id < repo.nextID; id++ {
		if user, ok := repo.accounts[id]; ok {
			clone := *user
			ordered = append(ordered, &clone)
		}
	}

	total := len(ordered)
	if skip >= total {
		return []*users.User{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return ordered[skip:end], total, nil
}

func (repo *memoryRepository) Create(_ context.Context, user *users.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.accounts {
		if existing.Email == user.Email {
			return apperr.Conflict("The user with this email already exists in the system")
		}
	}

	now := time.Now()
	user.ID = repo.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	repo.nextID++

	clone := *user
	repo.accounts[user.ID] = &clone
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, user *users.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.accounts[user.ID]; !ok {
		return apperr.NotFound("User")
	}

	for id, existing := range repo.accounts {
		if id != user.ID && existing.Email == user.Email {
			return apperr.Conflict("The user with this email already exists in the system")
		}
	}

	user.UpdatedAt = time.Now()
	clone := *user
	repo.accounts[user.ID] = &clone
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.accounts[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repo.accounts, id)
	return nil
}

// memoryTokenStore is an in-memory users.VerificationTokenRepository.
// TTLs are recorded but not enforced; expiry behavior belongs to Redis.
type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: make(map[string]string)}
}

func (store *memoryTokenStore) Set(_ context.Context, token, email string, _ time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.tokens[token] = email
	return nil
}

func (store *memoryTokenStore) Get(_ context.Context, token string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	email, ok := store.tokens[token]
	if !ok {
		return "", apperr.NotFound("Verification token")
	}
	return email, nil
}

func (store *memoryTokenStore) Delete(_ context.Context, token string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.tokens, token)
	return nil
}

// # Test Fixture

type fixture struct {
	repo    *memoryRepository
	tokens  *memoryTokenStore
	codec   *sec.TokenCodec
	hasher  *sec.PasswordHasher
	service *users.Service
}

// newFixture wires a service against in-memory storage, a real codec, and a
// real (minimum-cost) hasher.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	codec, err := sec.NewTokenCodec(sec.TokenConfig{
		AccessKey:  "test-access-signing-key",
		ResetKey:   "test-reset-signing-key",
		Algorithm:  "HS256",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		ResetTTL:   time.Hour,
	})
	require.NoError(t, err)

	repo := newMemoryRepository()
	tokens := newMemoryTokenStore()
	hasher := sec.NewPasswordHasher(bcrypt.MinCost)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := users.NewService(repo, tokens, codec, hasher, mailer.NewLogSender(quiet))

	return &fixture{
		repo:    repo,
		tokens:  tokens,
		codec:   codec,
		hasher:  hasher,
		service: service,
	}
}

// mustRegister enrolls an account through the service and returns it.
func (f *fixture) mustRegister(t *testing.T, email, password string) *users.User {
	t.Helper()

	user, err := f.service.Register(context.Background(), users.RegisterInput{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

// mustSuperuser seeds an administrator account directly in storage.
func (f *fixture) mustSuperuser(t *testing.T, email, password string) *users.User {
	t.Helper()

	admin, err := f.service.EnsureSuperuser(context.Background(), email, password)
	require.NoError(t, err)
	return admin
}
