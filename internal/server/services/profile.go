package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/whybudget/internal/common"
	"github.com/dmitrijs2005/whybudget/internal/server/identity"
	"github.com/dmitrijs2005/whybudget/internal/server/models"
	"github.com/dmitrijs2005/whybudget/internal/server/repositories/repomanager"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ProfileService manages user-owned settings and the selected plan. Users
// are addressed by email.
type ProfileService struct {
	repomanager repomanager.RepositoryManager
	clock       func() time.Time
}

func NewProfileService(m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{repomanager: m, clock: time.Now}
}

// UpdateProfile replaces every field present in patch wholesale. Only
// those columns are written.
func (s *ProfileService) UpdateProfile(ctx context.Context, email string, patch *models.ProfilePatch) (*models.User, error) {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, common.ErrorInvalidInput
	}

	user, err := s.repomanager.Users(s.repomanager.DB()).UpdateProfile(ctx, email, patch)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// SelectPlan records plan for the user and marks the payment as done.
func (s *ProfileService) SelectPlan(ctx context.Context, email string, sel *models.PlanSelection) (*models.User, error) {
	email = identity.NormalizeEmail(email)
	plan := cases.Lower(language.Und).String(strings.TrimSpace(sel.Plan))
	if email == "" || plan == "" {
		return nil, common.ErrorInvalidInput
	}

	change := &models.PlanChange{
		Plan:            plan,
		Since:           s.clock().UTC(),
		PaymentStatus:   models.PaymentStatusPaid,
		PaymentProvider: sel.PaymentProvider,
		PaymentID:       sel.PaymentID,
	}
	user, err := s.repomanager.Users(s.repomanager.DB()).SetPlan(ctx, email, change)
	if err != nil {
		return nil, fmt.Errorf("select plan: %w", err)
	}
	return user, nil
}
