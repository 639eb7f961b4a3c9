package transactions

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/whybudget/internal/common"
	"github.com/dmitrijs2005/whybudget/internal/server/models"
	"github.com/google/uuid"
)

var nowUTC = func() time.Time { return time.Now().UTC() }

// MemoryRepository keeps transactions in a slice so listing preserves
// insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []*models.Transaction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*models.Transaction{}
	for _, t := range r.items {
		if t.UserID == owner {
			c := *t
			result = append(result, &c)
		}
	}
	return result, nil
}

func (r *MemoryRepository) Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	} else if r.indexOf(t.ID) >= 0 {
		return nil, common.ErrorAlreadyExists
	}

	now := nowUTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	c := *t
	r.items = append(r.items, &c)
	return t, nil
}

func (r *MemoryRepository) GetOwned(ctx context.Context, owner, id string) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.ownedIndex(owner, id)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	c := *r.items[i]
	return &c, nil
}

func (r *MemoryRepository) UpdateOwned(ctx context.Context, owner, id string, patch *models.TransactionPatch) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.ownedIndex(owner, id)
	if i < 0 {
		return nil, common.ErrorNotFound
	}

	t := r.items[i]
	patch.Apply(t)
	t.UpdatedAt = nowUTC()

	c := *t
	return &c, nil
}

func (r *MemoryRepository) DeleteOwned(ctx context.Context, owner, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.ownedIndex(owner, id)
	if i < 0 {
		return common.ErrorNotFound
	}
	r.items = slices.Delete(r.items, i, i+1)
	return nil
}

func (r *MemoryRepository) indexOf(id string) int {
	return slices.IndexFunc(r.items, func(t *models.Transaction) bool { return t.ID == id })
}

func (r *MemoryRepository) ownedIndex(owner, id string) int {
	return slices.IndexFunc(r.items, func(t *models.Transaction) bool {
		return t.ID == id && t.UserID == owner
	})
}

var _ Repository = (*MemoryRepository)(nil)
