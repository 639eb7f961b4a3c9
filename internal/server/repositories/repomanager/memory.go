package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/whybudget/internal/dbx"
	"github.com/dmitrijs2005/whybudget/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/whybudget/internal/server/repositories/users"
)

// MemoryRepositoryManager hands out process-local repositories. The DBTX
// arguments are ignored; every call returns the same store.
type MemoryRepositoryManager struct {
	txMu         sync.Mutex
	users        *users.MemoryRepository
	transactions *transactions.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:        users.NewMemoryRepository(),
		transactions: transactions.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) DB() dbx.DBTX { return nil }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) Transactions(dbx.DBTX) transactions.Repository {
	return m.transactions
}

// WithinTx serializes fn against other WithinTx calls. Writes made by fn are
// not rolled back when it fails.
func (m *MemoryRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *MemoryRepositoryManager) Close() error { return nil }
