package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/whybudget/internal/common"
	"github.com/dmitrijs2005/whybudget/internal/server/identity"
	"github.com/dmitrijs2005/whybudget/internal/server/models"
	"github.com/dmitrijs2005/whybudget/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ErrMalformedID is returned for transaction ids that are not UUIDs.
var ErrMalformedID = fmt.Errorf("%w: malformed id", common.ErrorInvalidInput)

// LedgerService is the owner-scoped transaction ledger. Every operation is
// keyed by the caller-id resolved at the edge; records owned by another
// caller behave exactly like missing ones.
type LedgerService struct {
	repomanager repomanager.RepositoryManager
}

func NewLedgerService(m repomanager.RepositoryManager) *LedgerService {
	return &LedgerService{repomanager: m}
}

// List returns the caller's transactions in insertion order. An empty caller
// gets an empty list rather than an error.
func (s *LedgerService) List(ctx context.Context, caller string) ([]*models.Transaction, error) {
	if caller == "" {
		return []*models.Transaction{}, nil
	}
	items, err := s.repomanager.Transactions(s.repomanager.DB()).ListByOwner(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return items, nil
}

// Create stores tx for caller. Owner, id and timestamps supplied by the
// client are ignored.
func (s *LedgerService) Create(ctx context.Context, caller string, tx *models.Transaction) (*models.Transaction, error) {
	if err := identity.RequireCaller(caller); err != nil {
		return nil, err
	}
	if !tx.Type.Valid() || tx.Date.IsZero() {
		return nil, common.ErrorInvalidInput
	}

	tx.ID = ""
	tx.UserID = caller

	created, err := s.repomanager.Transactions(s.repomanager.DB()).Create(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return created, nil
}

// Update applies the present fields of patch to the caller's transaction id.
func (s *LedgerService) Update(ctx context.Context, caller, id string, patch *models.TransactionPatch) (*models.Transaction, error) {
	if err := identity.RequireCaller(caller); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, common.ErrorInvalidInput
	}
	if patch.Date != nil && patch.Date.IsZero() {
		return nil, common.ErrorInvalidInput
	}

	repo := s.repomanager.Transactions(s.repomanager.DB())
	if patch.Empty() {
		return repo.GetOwned(ctx, caller, id)
	}
	return repo.UpdateOwned(ctx, caller, id, patch)
}

// Delete removes the caller's transaction id.
func (s *LedgerService) Delete(ctx context.Context, caller, id string) error {
	if err := identity.RequireCaller(caller); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}
	return s.repomanager.Transactions(s.repomanager.DB()).DeleteOwned(ctx, caller, id)
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrMalformedID
	}
	return nil
}
