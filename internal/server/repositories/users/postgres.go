package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/whybudget/internal/common"
	"github.com/dmitrijs2005/whybudget/internal/dbx"
	"github.com/dmitrijs2005/whybudget/internal/server/models"
	"github.com/google/uuid"
)

const userColumns = `id, email, is_verified, otp_code, otp_expires_at, username, plan, plan_since,
		payment_status, payment_provider, payment_id, income_categories, expense_categories,
		investment_types, investment_platforms, accounts, savings_accounts, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user, assigning a new id when it has none.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	args, err := userArgs(user)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO users (id, email, is_verified, otp_code, otp_expires_at, username, plan, plan_since,
		 payment_status, payment_provider, payment_id, income_categories, expense_categories,
		 investment_types, investment_platforms, accounts, savings_accounts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// SetChallenge stores challenge as the only valid code of user id.
func (r *PostgresRepository) SetChallenge(ctx context.Context, id string, challenge *models.OTPChallenge) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	code, expiresAt := challengeArgs(challenge)
	query :=
		`UPDATE users SET otp_code = $2, otp_expires_at = $3, updated_at = NOW()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, code, expiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res, common.ErrorNotFound)
}

// ConsumeChallenge verifies user id if its stored code is still code.
func (r *PostgresRepository) ConsumeChallenge(ctx context.Context, id, code string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	query :=
		`UPDATE users SET is_verified = TRUE, otp_code = NULL, otp_expires_at = NULL, updated_at = NOW()
		 WHERE id = $1 AND otp_code = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, code)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res, common.ErrNoActiveChallenge)
}

// UpdateProfile replaces the present profile fields of the user with email
// and returns the stored result.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, email string, patch *models.ProfilePatch) (*models.User, error) {
	var username sql.NullString
	if patch.Username != nil {
		username = sql.NullString{String: strings.TrimSpace(*patch.Username), Valid: true}
	}

	args := []any{email, username}
	for _, l := range []any{
		patch.Accounts, patch.SavingsAccounts, patch.IncomeCategories, patch.ExpenseCategories,
		patch.InvestmentTypes, patch.InvestmentPlatforms,
	} {
		v, err := optionalList(l)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	query :=
		`UPDATE users SET
		 username = COALESCE($2::text, username),
		 accounts = COALESCE($3::jsonb, accounts),
		 savings_accounts = COALESCE($4::jsonb, savings_accounts),
		 income_categories = COALESCE($5::jsonb, income_categories),
		 expense_categories = COALESCE($6::jsonb, expense_categories),
		 investment_types = COALESCE($7::jsonb, investment_types),
		 investment_platforms = COALESCE($8::jsonb, investment_platforms),
		 updated_at = NOW()
		 WHERE email = $1
		 RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query, args...))
}

// SetPlan records change for the user with email and returns the stored
// result.
func (r *PostgresRepository) SetPlan(ctx context.Context, email string, change *models.PlanChange) (*models.User, error) {
	query :=
		`UPDATE users SET plan = $2, plan_since = $3, payment_status = $4,
		 payment_provider = COALESCE($5::text, payment_provider),
		 payment_id = COALESCE($6::text, payment_id),
		 updated_at = NOW()
		 WHERE email = $1
		 RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query, email, change.Plan, change.Since, change.PaymentStatus,
		optionalString(change.PaymentProvider), optionalString(change.PaymentID)))
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}

func challengeArgs(ch *models.OTPChallenge) (sql.NullString, sql.NullTime) {
	if ch == nil {
		return sql.NullString{}, sql.NullTime{}
	}
	return sql.NullString{String: ch.Code, Valid: true}, sql.NullTime{Time: ch.ExpiresAt, Valid: true}
}

func optionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// optionalList encodes a present list pointer as JSON and an absent one as
// NULL.
func optionalList(p any) (any, error) {
	switch l := p.(type) {
	case *[]string:
		if l == nil {
			return nil, nil
		}
		return marshalList(*l)
	case *[]models.Account:
		if l == nil {
			return nil, nil
		}
		return marshalList(*l)
	default:
		return nil, fmt.Errorf("encode list: unsupported %T", p)
	}
}

func userArgs(u *models.User) ([]any, error) {
	code, expiresAt := challengeArgs(u.Challenge)

	var planSince sql.NullTime
	if u.PlanSince != nil {
		planSince = sql.NullTime{Time: *u.PlanSince, Valid: true}
	}

	lists := []any{
		u.IncomeCategories, u.ExpenseCategories, u.InvestmentTypes, u.InvestmentPlatforms,
		u.Accounts, u.SavingsAccounts,
	}
	encoded := make([]any, 0, len(lists))
	for _, l := range lists {
		b, err := marshalList(l)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, b)
	}

	args := []any{
		u.ID, u.Email, u.IsVerified, code, expiresAt, u.Username, u.Plan, planSince,
		u.PaymentStatus, u.PaymentProvider, u.PaymentID,
	}
	return append(args, encoded...), nil
}

func marshalList(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	if string(b) == "null" {
		return []byte("[]"), nil
	}
	return b, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u                                  models.User
		code                               sql.NullString
		expiresAt, planSince               sql.NullTime
		income, expense, invTypes, invPlat []byte
		accounts, savings                  []byte
	)

	err := row.Scan(&u.ID, &u.Email, &u.IsVerified, &code, &expiresAt, &u.Username, &u.Plan, &planSince,
		&u.PaymentStatus, &u.PaymentProvider, &u.PaymentID, &income, &expense, &invTypes, &invPlat,
		&accounts, &savings, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if code.Valid && expiresAt.Valid {
		u.Challenge = &models.OTPChallenge{Code: code.String, ExpiresAt: expiresAt.Time.UTC()}
	}
	if planSince.Valid {
		t := planSince.Time.UTC()
		u.PlanSince = &t
	}

	decode := []struct {
		raw []byte
		dst any
	}{
		{income, &u.IncomeCategories},
		{expense, &u.ExpenseCategories},
		{invTypes, &u.InvestmentTypes},
		{invPlat, &u.InvestmentPlatforms},
		{accounts, &u.Accounts},
		{savings, &u.SavingsAccounts},
	}
	for _, d := range decode {
		if len(d.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(d.raw, d.dst); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
	}

	return &u, nil
}

var _ Repository = (*PostgresRepository)(nil)
