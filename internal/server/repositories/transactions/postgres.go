package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/whybudget/internal/common"
	"github.com/dmitrijs2005/whybudget/internal/dbx"
	"github.com/dmitrijs2005/whybudget/internal/server/models"
	"github.com/google/uuid"
)

const transactionColumns = `id, user_id, date, type, category, amount, description, account_id,
		loan_party, loan_purpose, investment_type, investment_platform, investment_currency,
		created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1
		ORDER BY seq
		`
	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	result := []*models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts t, assigning a new id when it has none.
func (r *PostgresRepository) Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	query := `
		INSERT INTO transactions (id, user_id, date, type, category, amount, description, account_id,
			loan_party, loan_purpose, investment_type, investment_platform, investment_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.UserID, t.Date, string(t.Type), t.Category, t.Amount, t.Description, t.AccountID,
		t.LoanParty, t.LoanPurpose, t.InvestmentType, t.InvestmentPlatform, t.InvestmentCurrency,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) GetOwned(ctx context.Context, owner, id string) (*models.Transaction, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE id = $1 AND user_id = $2
		`
	return scanTransaction(r.db.QueryRowContext(ctx, query, id, owner))
}

// UpdateOwned applies the present fields of patch in a single statement;
// absent fields bind as NULL and keep their stored value.
func (r *PostgresRepository) UpdateOwned(ctx context.Context, owner, id string, patch *models.TransactionPatch) (*models.Transaction, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	var kind *string
	if patch.Type != nil {
		k := string(*patch.Type)
		kind = &k
	}

	query := `
		UPDATE transactions SET
			date = COALESCE($3::date, date),
			type = COALESCE($4::text, type),
			category = COALESCE($5::text, category),
			amount = COALESCE($6::numeric, amount),
			description = COALESCE($7::text, description),
			account_id = COALESCE($8::text, account_id),
			loan_party = COALESCE($9::text, loan_party),
			loan_purpose = COALESCE($10::text, loan_purpose),
			investment_type = COALESCE($11::text, investment_type),
			investment_platform = COALESCE($12::text, investment_platform),
			investment_currency = COALESCE($13::text, investment_currency),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + transactionColumns
	row := r.db.QueryRowContext(ctx, query, id, owner,
		patch.Date, kind, patch.Category, patch.Amount, patch.Description, patch.AccountID,
		patch.LoanParty, patch.LoanPurpose, patch.InvestmentType, patch.InvestmentPlatform, patch.InvestmentCurrency,
	)
	return scanTransaction(row)
}

func (r *PostgresRepository) DeleteOwned(ctx context.Context, owner, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*models.Transaction, error) {
	var t models.Transaction
	var kind string
	err := s.Scan(&t.ID, &t.UserID, &t.Date, &kind, &t.Category, &t.Amount, &t.Description, &t.AccountID,
		&t.LoanParty, &t.LoanPurpose, &t.InvestmentType, &t.InvestmentPlatform, &t.InvestmentCurrency,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	t.Type = models.TransactionKind(kind)
	return &t, nil
}

var _ Repository = (*PostgresRepository)(nil)
