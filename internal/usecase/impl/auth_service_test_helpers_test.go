package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"authapi/internal/domain/entity"
	"authapi/internal/domain/repository"
	"authapi/internal/domain/service"
	"authapi/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFastHasher returns a real argon2id hasher with parameters small enough for tests.
func newFastHasher() service.PasswordHasher {
	return auth.NewArgon2HasherWithParams(auth.Argon2Params{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

// memoryUserRepository enforces email uniqueness the way the storage constraint does.
type memoryUserRepository struct {
	mu      sync.Mutex
	byEmail map[string]*entity.User
	failErr error
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{byEmail: make(map[string]*entity.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failErr != nil {
		return r.failErr
	}
	if _, exists := r.byEmail[user.Email]; exists {
		return errors.Wrap(repository.ErrDuplicateEmail, "failed to create user")
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	stored := *user
	r.byEmail[user.Email] = &stored

	return nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failErr != nil {
		return nil, r.failErr
	}
	user, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	found := *user

	return &found, nil
}

func (r *memoryUserRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.byEmail)
}

func (r *memoryUserRepository) storedHash(email string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.byEmail[email]; ok {
		return user.PasswordHash
	}

	return ""
}
