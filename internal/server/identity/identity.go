// Package identity resolves who is calling. It owns the single email
// normalization rule used by every email-keyed entry point and the caller-id
// resolution used by owner-scoped operations.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/whybudget/internal/common"
	"github.com/dmitrijs2005/whybudget/internal/logging"
	"github.com/dmitrijs2005/whybudget/internal/server/auth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	// a Caser is stateful, so one is built per call
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

// Gateway resolves the caller-id of an inbound request. The caller-id is an
// opaque identifier supplied by the client, not a verified credential; a
// session token issued at verification is accepted in its place.
type Gateway struct {
	secret []byte
	logger logging.Logger
}

func NewGateway(secret []byte, l logging.Logger) *Gateway {
	return &Gateway{secret: secret, logger: l.With("module", "identity")}
}

// Resolve returns the caller-id carried by the request. callerID is the raw
// caller-id header, authorization the raw Authorization header. The header
// wins when both are present. An invalid or expired token resolves to no
// caller. Expired tokens are logged.
func (g *Gateway) Resolve(ctx context.Context, callerID, authorization string) (string, bool) {
	if id := strings.TrimSpace(callerID); id != "" {
		return id, true
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	id, err := auth.GetUserIDFromToken(strings.TrimSpace(token), g.secret)
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		g.logger.Info(ctx, "session token expired")
		return "", false
	case err != nil:
		g.logger.Debug(ctx, "session token rejected", "error", err)
		return "", false
	}

	return id, true
}

type ctxKey struct{}

// WithCaller returns a context carrying callerID.
func WithCaller(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, callerID)
}

// CallerFromContext returns the caller-id stored by WithCaller, or "".
func CallerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// RequireCaller fails with common.ErrorUnauthenticated when no caller
// was resolved.
func RequireCaller(callerID string) error {
	if callerID == "" {
		return common.ErrorUnauthenticated
	}
	return nil
}
