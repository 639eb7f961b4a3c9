// Package repomanager vends repositories bound to a storage backend and runs
// multi-step store work atomically.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/whybudget/internal/dbx"
	"github.com/dmitrijs2005/whybudget/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/whybudget/internal/server/repositories/users"
)

// Supported storage backends.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// DB is the non-transactional handle to pass to Users or Transactions.
	DB() dbx.DBTX
	Users(db dbx.DBTX) users.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	// WithinTx runs fn atomically with respect to other WithinTx calls; the
	// handle it receives must be used for every repository inside fn.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Close() error
}

// New opens the backend named by backend. dsn is only used by postgres.
func New(ctx context.Context, backend, dsn string) (RepositoryManager, error) {
	switch backend {
	case BackendPostgres:
		db, err := openDB("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		return NewPostgresRepositoryManager(db)
	case BackendMemory:
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
