package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in a map. It is meant for development and
// tests; contents are lost on restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	stored := *user
	stored.PasswordHash = append([]byte(nil), user.PasswordHash...)
	r.users[user.UserName] = stored

	return user, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.RLock()
	u, ok := r.users[login]
	r.mu.RUnlock()

	if !ok {
		return nil, common.ErrorNotFound
	}
	u.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &u, nil
}
