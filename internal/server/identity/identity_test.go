package identity

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/whybudget/internal/common"
	"github.com/dmitrijs2005/whybudget/internal/logging"
	"github.com/dmitrijs2005/whybudget/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a@x.com", "a@x.com"},
		{"  A@X.com \n", "a@x.com"},
		{"John.Doe@Example.ORG", "john.doe@example.org"},
		{"   ", ""},
		{"", ""},
		{"ÉLODIE@exemple.fr", "élodie@exemple.fr"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEmail(tt.in), "input %q", tt.in)
	}
}

func TestGateway_Resolve(t *testing.T) {
	secret := []byte("k")
	g := NewGateway(secret, logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	valid, err := auth.GenerateToken("user-from-token", secret, time.Hour)
	require.NoError(t, err)
	expired, err := auth.GenerateToken("user-from-token", secret, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name          string
		header        string
		authorization string
		wantID        string
		wantOK        bool
	}{
		{name: "header", header: "u1", wantID: "u1", wantOK: true},
		{name: "header is trimmed", header: "  u1 ", wantID: "u1", wantOK: true},
		{name: "header wins over token", header: "u1", authorization: "Bearer " + valid, wantID: "u1", wantOK: true},
		{name: "token only", authorization: "Bearer " + valid, wantID: "user-from-token", wantOK: true},
		{name: "lower-case scheme", authorization: "bearer " + valid, wantID: "user-from-token", wantOK: true},
		{name: "expired token", authorization: "Bearer " + expired},
		{name: "garbage token", authorization: "Bearer abc"},
		{name: "basic scheme", authorization: "Basic dTE6cHc="},
		{name: "nothing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := g.Resolve(context.Background(), tt.header, tt.authorization)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestGateway_LogsExpiredSession(t *testing.T) {
	secret := []byte("k")
	var buf bytes.Buffer
	g := NewGateway(secret, logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	expired, err := auth.GenerateToken("u1", secret, -time.Minute)
	require.NoError(t, err)

	_, ok := g.Resolve(context.Background(), "", "Bearer "+expired)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "session token expired")
	assert.Contains(t, buf.String(), "module=identity")

	buf.Reset()
	_, ok = g.Resolve(context.Background(), "", "Bearer abc")
	assert.False(t, ok)
	assert.NotContains(t, buf.String(), "session token expired")
}

func TestCallerContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", CallerFromContext(ctx))

	ctx = WithCaller(ctx, "u1")
	assert.Equal(t, "u1", CallerFromContext(ctx))
}

func TestRequireCaller(t *testing.T) {
	assert.NoError(t, RequireCaller("u1"))
	assert.True(t, errors.Is(RequireCaller(""), common.ErrorUnauthenticated))
}
