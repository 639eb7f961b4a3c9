// Package models defines the server-side records persisted by the
// repositories and the projections returned to clients.
package models

import "time"

// Account kinds.
const (
	AccountKindBank    = "bank"
	AccountKindCash    = "cash"
	AccountKindSavings = "savings"
)

// Plan and payment defaults.
const (
	DefaultPlan            = "basic"
	PaymentStatusUnpaid    = "unpaid"
	PaymentStatusPaid      = "paid"
	DefaultAccountCurrency = "AED"
)

// Account is embedded in its owning User; its id is assigned by the client.
type Account struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	Type      string `json:"type"`
	Mandatory bool   `json:"mandatory"`
}

// OTPChallenge is the latest code emailed to a user. A user has either a
// complete challenge or none.
type OTPChallenge struct {
	Code      string
	ExpiresAt time.Time
}

type User struct {
	ID                  string
	Email               string
	IsVerified          bool
	Challenge           *OTPChallenge
	Username            string
	Plan                string
	PlanSince           *time.Time
	PaymentStatus       string
	PaymentProvider     string
	PaymentID           string
	IncomeCategories    []string
	ExpenseCategories   []string
	InvestmentTypes     []string
	InvestmentPlatforms []string
	Accounts            []Account
	SavingsAccounts     []Account
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewUser returns a user for email seeded with the default accounts and
// category lists.
func NewUser(email string) *User {
	return &User{
		Email:               email,
		Plan:                DefaultPlan,
		PaymentStatus:       PaymentStatusUnpaid,
		IncomeCategories:    []string{"Salary", "Bonus", "Business", "Other income"},
		ExpenseCategories:   []string{"Rent", "Groceries", "Utilities", "Transport", "Other expense"},
		InvestmentTypes:     []string{},
		InvestmentPlatforms: []string{},
		Accounts: []Account{
			{ID: "acc-bank-1", Name: "Main Bank", Currency: DefaultAccountCurrency, Type: AccountKindBank, Mandatory: true},
			{ID: "acc-cash", Name: "Cash", Currency: DefaultAccountCurrency, Type: AccountKindCash, Mandatory: true},
		},
		SavingsAccounts: []Account{},
	}
}

// SafeUser is the client-facing projection of a User. It never carries the
// one-time code or its expiry.
type SafeUser struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Username            string     `json:"username"`
	IsVerified          bool       `json:"isVerified"`
	Plan                string     `json:"plan"`
	PlanSince           *time.Time `json:"planSince"`
	PaymentStatus       string     `json:"paymentStatus"`
	PaymentProvider     string     `json:"paymentProvider"`
	PaymentID           string     `json:"paymentId"`
	IncomeCategories    []string   `json:"incomeCategories"`
	ExpenseCategories   []string   `json:"expenseCategories"`
	Accounts            []Account  `json:"accounts"`
	SavingsAccounts     []Account  `json:"savingsAccounts"`
	InvestmentTypes     []string   `json:"investmentTypes"`
	InvestmentPlatforms []string   `json:"investmentPlatforms"`
}

// Safe projects u for clients. Nil lists become empty ones.
func (u *User) Safe() *SafeUser {
	return &SafeUser{
		ID:                  u.ID,
		Email:               u.Email,
		Username:            u.Username,
		IsVerified:          u.IsVerified,
		Plan:                u.Plan,
		PlanSince:           u.PlanSince,
		PaymentStatus:       u.PaymentStatus,
		PaymentProvider:     u.PaymentProvider,
		PaymentID:           u.PaymentID,
		IncomeCategories:    orEmpty(u.IncomeCategories),
		ExpenseCategories:   orEmpty(u.ExpenseCategories),
		Accounts:            orEmpty(u.Accounts),
		SavingsAccounts:     orEmpty(u.SavingsAccounts),
		InvestmentTypes:     orEmpty(u.InvestmentTypes),
		InvestmentPlatforms: orEmpty(u.InvestmentPlatforms),
	}
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	c := *u
	if u.Challenge != nil {
		ch := *u.Challenge
		c.Challenge = &ch
	}
	if u.PlanSince != nil {
		ps := *u.PlanSince
		c.PlanSince = &ps
	}
	c.IncomeCategories = cloneSlice(u.IncomeCategories)
	c.ExpenseCategories = cloneSlice(u.ExpenseCategories)
	c.InvestmentTypes = cloneSlice(u.InvestmentTypes)
	c.InvestmentPlatforms = cloneSlice(u.InvestmentPlatforms)
	c.Accounts = cloneSlice(u.Accounts)
	c.SavingsAccounts = cloneSlice(u.SavingsAccounts)
	return &c
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
