// Package users stores User records keyed by id and by normalized email.
package users

import (
	"context"

	"github.com/dmitrijs2005/whybudget/internal/server/models"
)

// Repository persists users. Email is unique; Create reports a conflict as
// common.ErrorAlreadyExists and lookups of unknown users as
// common.ErrorNotFound.
//
// Writes touch only the columns they name.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// SetChallenge replaces the stored challenge; nil clears it.
	SetChallenge(ctx context.Context, id string, challenge *models.OTPChallenge) error
	// ConsumeChallenge marks the user verified and clears the challenge, but
	// only while the stored code is still code. Otherwise it returns
	// common.ErrNoActiveChallenge.
	ConsumeChallenge(ctx context.Context, id, code string) error
	UpdateProfile(ctx context.Context, email string, patch *models.ProfilePatch) (*models.User, error)
	SetPlan(ctx context.Context, email string, change *models.PlanChange) (*models.User, error)
}
