package models

import (
	"time"

	"github.com/dmitrijs2005/whybudget/internal/timex"
	"github.com/shopspring/decimal"
)

// TransactionKind is the closed set of transaction types.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
	KindReturn  TransactionKind = "return"
)

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindReturn:
		return true
	}
	return false
}

// Transaction belongs to exactly one caller (UserID). The currency of Amount
// is implied by the referenced account.
type Transaction struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId"`
	Date               timex.Date      `json:"date"`
	Type               TransactionKind `json:"type"`
	Category           string          `json:"category"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	AccountID          string          `json:"accountId"`
	LoanParty          string          `json:"loanParty"`
	LoanPurpose        string          `json:"loanPurpose"`
	InvestmentType     string          `json:"investmentType"`
	InvestmentPlatform string          `json:"investmentPlatform"`
	InvestmentCurrency string          `json:"investmentCurrency"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// TransactionPatch lists the fields of an update; nil (or JSON null) means
// "leave as is".
// Owner and id are not patchable.
type TransactionPatch struct {
	Date               *timex.Date      `json:"date"`
	Type               *TransactionKind `json:"type"`
	Category           *string          `json:"category"`
	Amount             *decimal.Decimal `json:"amount"`
	Description        *string          `json:"description"`
	AccountID          *string          `json:"accountId"`
	LoanParty          *string          `json:"loanParty"`
	LoanPurpose        *string          `json:"loanPurpose"`
	InvestmentType     *string          `json:"investmentType"`
	InvestmentPlatform *string          `json:"investmentPlatform"`
	InvestmentCurrency *string          `json:"investmentCurrency"`
}

// Apply copies the present fields of p onto t.
func (p *TransactionPatch) Apply(t *Transaction) {
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.AccountID != nil {
		t.AccountID = *p.AccountID
	}
	if p.LoanParty != nil {
		t.LoanParty = *p.LoanParty
	}
	if p.LoanPurpose != nil {
		t.LoanPurpose = *p.LoanPurpose
	}
	if p.InvestmentType != nil {
		t.InvestmentType = *p.InvestmentType
	}
	if p.InvestmentPlatform != nil {
		t.InvestmentPlatform = *p.InvestmentPlatform
	}
	if p.InvestmentCurrency != nil {
		t.InvestmentCurrency = *p.InvestmentCurrency
	}
}

// Empty reports whether the patch changes nothing.
func (p *TransactionPatch) Empty() bool {
	return *p == TransactionPatch{}
}
