package models

import (
	"strings"
	"time"
)

// ProfilePatch lists the profile fields of an update. A nil field is
// absent; a present list replaces the stored one wholesale, even when empty.
type ProfilePatch struct {
	Username            *string    `json:"username"`
	Accounts            *[]Account `json:"accounts"`
	SavingsAccounts     *[]Account `json:"savingsAccounts"`
	IncomeCategories    *[]string  `json:"incomeCategories"`
	ExpenseCategories   *[]string  `json:"expenseCategories"`
	InvestmentTypes     *[]string  `json:"investmentTypes"`
	InvestmentPlatforms *[]string  `json:"investmentPlatforms"`
}

// Apply copies the present fields of p onto u. Username is trimmed.
func (p *ProfilePatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = strings.TrimSpace(*p.Username)
	}
	if p.Accounts != nil {
		u.Accounts = cloneSlice(*p.Accounts)
	}
	if p.SavingsAccounts != nil {
		u.SavingsAccounts = cloneSlice(*p.SavingsAccounts)
	}
	if p.IncomeCategories != nil {
		u.IncomeCategories = cloneSlice(*p.IncomeCategories)
	}
	if p.ExpenseCategories != nil {
		u.ExpenseCategories = cloneSlice(*p.ExpenseCategories)
	}
	if p.InvestmentTypes != nil {
		u.InvestmentTypes = cloneSlice(*p.InvestmentTypes)
	}
	if p.InvestmentPlatforms != nil {
		u.InvestmentPlatforms = cloneSlice(*p.InvestmentPlatforms)
	}
}

// PlanSelection is a plan choice with optional payment details.
type PlanSelection struct {
	Plan            string  `json:"plan"`
	PaymentProvider *string `json:"paymentProvider"`
	PaymentID       *string `json:"paymentId"`
}

// PlanChange is a resolved plan selection as it is stored. Nil payment
// fields keep the stored values.
type PlanChange struct {
	Plan            string
	Since           time.Time
	PaymentStatus   string
	PaymentProvider *string
	PaymentID       *string
}

// Apply copies c onto u.
func (c *PlanChange) Apply(u *User) {
	since := c.Since
	u.Plan = c.Plan
	u.PlanSince = &since
	u.PaymentStatus = c.PaymentStatus
	if c.PaymentProvider != nil {
		u.PaymentProvider = *c.PaymentProvider
	}
	if c.PaymentID != nil {
		u.PaymentID = *c.PaymentID
	}
}
