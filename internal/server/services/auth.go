// Package services contains server-side business logic: the one-time code
// authenticator, the owner-scoped transaction ledger, profile management and
// ledger export.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/whybudget/internal/common"
	"github.com/dmitrijs2005/whybudget/internal/dbx"
	"github.com/dmitrijs2005/whybudget/internal/server/auth"
	"github.com/dmitrijs2005/whybudget/internal/server/config"
	"github.com/dmitrijs2005/whybudget/internal/server/identity"
	"github.com/dmitrijs2005/whybudget/internal/server/models"
	"github.com/dmitrijs2005/whybudget/internal/server/notifier"
	"github.com/dmitrijs2005/whybudget/internal/server/repositories/repomanager"
)

// CodeDigits is the length of an emailed one-time code.
const CodeDigits = 6

// createAttempts bounds how often RequestChallenge retries after losing the
// unique-email race to a concurrent creator.
const createAttempts = 2

// AuthService runs the email one-time code lifecycle:
// - RequestChallenge: find or create the user, store a fresh code, email it
// - VerifyChallenge: check the code and mark the user verified
type AuthService struct {
	repomanager     repomanager.RepositoryManager
	notifier        notifier.Notifier
	otpValidity     time.Duration
	jwtSecret       []byte
	sessionValidity time.Duration

	clock        func() time.Time
	generateCode func() (string, error)
}

func NewAuthService(m repomanager.RepositoryManager, n notifier.Notifier, cfg *config.Config) *AuthService {
	return &AuthService{
		repomanager:     m,
		notifier:        n,
		otpValidity:     cfg.OTPValidityDuration,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionTokenValidityDuration,
		clock:           time.Now,
		generateCode: func() (string, error) {
			return common.GenerateNumericCode(CodeDigits)
		},
	}
}

// RequestChallenge stores a new code for email, replacing any earlier one,
// and hands it to the notifier. The user is created with default settings
// when the email is unseen. A delivery failure is reported as
// common.ErrDeliveryFailed and leaves the stored code in place.
func (s *AuthService) RequestChallenge(ctx context.Context, email string) error {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return common.ErrorInvalidInput
	}

	code, err := s.generateCode()
	if err != nil {
		return fmt.Errorf("%w: generate code: %v", common.ErrorInternal, err)
	}
	challenge := &models.OTPChallenge{Code: code, ExpiresAt: s.clock().UTC().Add(s.otpValidity)}

	for attempt := 1; ; attempt++ {
		err = s.repomanager.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
			return s.storeChallenge(ctx, tx, email, challenge)
		})
		if err == nil || !errors.Is(err, common.ErrorAlreadyExists) || attempt >= createAttempts {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}

	if err := s.notifier.Notify(ctx, email, code); err != nil {
		return fmt.Errorf("%w: %w", common.ErrDeliveryFailed, err)
	}
	return nil
}

func (s *AuthService) storeChallenge(ctx context.Context, tx dbx.DBTX, email string, challenge *models.OTPChallenge) error {
	repo := s.repomanager.Users(tx)

	user, err := repo.GetByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		user, err = repo.Create(ctx, models.NewUser(email))
	}
	if err != nil {
		return err
	}

	return repo.SetChallenge(ctx, user.ID, challenge)
}

// VerifyChallenge checks code against the challenge stored for email. On
// success the user is marked verified and the challenge is cleared in the
// same write. The write only applies while the checked challenge is still
// the stored one, so a code replaced in the meantime reports
// common.ErrNoActiveChallenge. The expiry instant itself is still valid.
func (s *AuthService) VerifyChallenge(ctx context.Context, email, code string) (*models.User, error) {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, common.ErrorNotFound
	}
	code = strings.TrimSpace(code)

	var verified *models.User
	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user.Challenge == nil {
			return common.ErrNoActiveChallenge
		}
		if s.clock().After(user.Challenge.ExpiresAt) {
			return common.ErrChallengeExpired
		}
		if subtle.ConstantTimeCompare([]byte(code), []byte(user.Challenge.Code)) != 1 {
			return common.ErrInvalidCode
		}

		if err := repo.ConsumeChallenge(ctx, user.ID, user.Challenge.Code); err != nil {
			return err
		}
		user.IsVerified = true
		user.Challenge = nil
		verified = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return verified, nil
}

// IssueSessionToken signs a session token carrying userID.
func (s *AuthService) IssueSessionToken(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", common.ErrorInternal, err)
	}
	return token, nil
}
