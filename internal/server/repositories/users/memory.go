package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/whybudget/internal/common"
	"github.com/dmitrijs2005/whybudget/internal/server/models"
	"github.com/google/uuid"
)

// nowUTC stamps records written by the in-memory backend.
var nowUTC = func() time.Time { return time.Now().UTC() }

// MemoryRepository keeps users in process memory. Stored records are cloned
// on the way in and out so callers never share state with the store.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	now := nowUTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = user.Clone()
	r.byEmail[user.Email] = user.ID
	return user, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u.Clone(), nil
}

func (r *MemoryRepository) SetChallenge(ctx context.Context, id string, challenge *models.OTPChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Challenge = nil
	if challenge != nil {
		ch := *challenge
		u.Challenge = &ch
	}
	u.UpdatedAt = nowUTC()
	return nil
}

func (r *MemoryRepository) ConsumeChallenge(ctx context.Context, id, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	if u.Challenge == nil || u.Challenge.Code != code {
		return common.ErrNoActiveChallenge
	}
	u.IsVerified = true
	u.Challenge = nil
	u.UpdatedAt = nowUTC()
	return nil
}

func (r *MemoryRepository) UpdateProfile(ctx context.Context, email string, patch *models.ProfilePatch) (*models.User, error) {
	return r.modifyByEmail(email, patch.Apply)
}

func (r *MemoryRepository) SetPlan(ctx context.Context, email string, change *models.PlanChange) (*models.User, error) {
	return r.modifyByEmail(email, change.Apply)
}

func (r *MemoryRepository) modifyByEmail(email string, fn func(u *models.User)) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.byID[id]
	fn(u)
	u.UpdatedAt = nowUTC()
	return u.Clone(), nil
}

var _ Repository = (*MemoryRepository)(nil)
