package rest

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/whybudget/internal/common"
	"github.com/dmitrijs2005/whybudget/internal/server/identity"
	"github.com/dmitrijs2005/whybudget/internal/server/models"
	"github.com/dmitrijs2005/whybudget/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type AuthService interface {
	RequestChallenge(ctx context.Context, email string) error
	VerifyChallenge(ctx context.Context, email, code string) (*models.User, error)
	IssueSessionToken(userID string) (string, error)
}

type LedgerService interface {
	List(ctx context.Context, caller string) ([]*models.Transaction, error)
	Create(ctx context.Context, caller string, tx *models.Transaction) (*models.Transaction, error)
	Update(ctx context.Context, caller, id string, patch *models.TransactionPatch) (*models.Transaction, error)
	Delete(ctx context.Context, caller, id string) error
}

type ProfileService interface {
	UpdateProfile(ctx context.Context, email string, patch *models.ProfilePatch) (*models.User, error)
	SelectPlan(ctx context.Context, email string, sel *models.PlanSelection) (*models.User, error)
}

type ExportService interface {
	Export(ctx context.Context, caller string) (*services.ExportResult, error)
}

// Handlers binds the HTTP routes to the services.
type Handlers struct {
	Auth    AuthService
	Ledger  LedgerService
	Profile ProfileService
	Export  ExportService
}

var (
	errInvalidBody   = fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	errEmailRequired = fiber.NewError(fiber.StatusBadRequest, "Email required")
	errPlanRequired  = fiber.NewError(fiber.StatusBadRequest, "Email and plan required")
	errInvalidID     = fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	errUserNotFound  = fiber.NewError(fiber.StatusNotFound, "User not found")
)

func caller(c *fiber.Ctx) string {
	return identity.CallerFromContext(c.UserContext())
}

func (h *Handlers) ListTransactions(c *fiber.Ctx) error {
	items, err := h.Ledger.List(c.UserContext(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *Handlers) CreateTransaction(c *fiber.Ctx) error {
	if err := identity.RequireCaller(caller(c)); err != nil {
		return err
	}

	var req models.Transaction
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	tx, err := h.Ledger.Create(c.UserContext(), caller(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

func (h *Handlers) UpdateTransaction(c *fiber.Ctx) error {
	if err := identity.RequireCaller(caller(c)); err != nil {
		return err
	}

	var patch models.TransactionPatch
	if err := c.BodyParser(&patch); err != nil {
		return errInvalidBody
	}

	tx, err := h.Ledger.Update(c.UserContext(), caller(c), c.Params("id"), &patch)
	if err != nil {
		return ledgerError(err)
	}
	return c.JSON(tx)
}

func (h *Handlers) DeleteTransaction(c *fiber.Ctx) error {
	if err := h.Ledger.Delete(c.UserContext(), caller(c), c.Params("id")); err != nil {
		return ledgerError(err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *Handlers) ExportTransactions(c *fiber.Ctx) error {
	res, err := h.Export.Export(c.UserContext(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

type emailRequest struct {
	Email string `json:"email"`
}

func (h *Handlers) RequestOTP(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	if err := h.Auth.RequestChallenge(c.UserContext(), req.Email); err != nil {
		if errors.Is(err, common.ErrorInvalidInput) {
			return errEmailRequired
		}
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *Handlers) VerifyOTP(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	user, err := h.Auth.VerifyChallenge(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return userError(err)
	}

	token, err := h.Auth.IssueSessionToken(user.ID)
	if err != nil {
		return err
	}
	c.Set(common.SessionTokenHeaderName, token)
	return c.JSON(user.Safe())
}

type updateProfileRequest struct {
	Email string `json:"email"`
	models.ProfilePatch
}

func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	user, err := h.Profile.UpdateProfile(c.UserContext(), req.Email, &req.ProfilePatch)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidInput) {
			return errEmailRequired
		}
		return userError(err)
	}
	return c.JSON(user.Safe())
}

type selectPlanRequest struct {
	Email string `json:"email"`
	models.PlanSelection
}

func (h *Handlers) SelectPlan(c *fiber.Ctx) error {
	var req selectPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	user, err := h.Profile.SelectPlan(c.UserContext(), req.Email, &req.PlanSelection)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidInput) {
			return errPlanRequired
		}
		return userError(err)
	}
	return c.JSON(user.Safe())
}

func userError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errUserNotFound
	}
	return err
}

func ledgerError(err error) error {
	if errors.Is(err, services.ErrMalformedID) {
		return errInvalidID
	}
	return err
}
