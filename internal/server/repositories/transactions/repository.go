// Package transactions stores ledger records. Every lookup by id is scoped to
// the owning caller in the same query, so a record owned by someone else is
// reported exactly like a missing one.
package transactions

import (
	"context"

	"github.com/dmitrijs2005/whybudget/internal/server/models"
)

type Repository interface {
	// ListByOwner returns the owner's transactions in insertion order.
	ListByOwner(ctx context.Context, owner string) ([]*models.Transaction, error)
	Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	GetOwned(ctx context.Context, owner, id string) (*models.Transaction, error)
	UpdateOwned(ctx context.Context, owner, id string, patch *models.TransactionPatch) (*models.Transaction, error)
	DeleteOwned(ctx context.Context, owner, id string) error
}
