package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/whybudget/internal/dbx"
	"github.com/dmitrijs2005/whybudget/internal/server/config"
	"github.com/dmitrijs2005/whybudget/internal/server/models"
	"github.com/dmitrijs2005/whybudget/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/whybudget/internal/server/repositories/users"
)

// --- helpers ---

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type sentCode struct {
	email string
	code  string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, email, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentCode{email: email, code: code})
	return nil
}

func (n *fakeNotifier) last(t *testing.T) sentCode {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		t.Fatal("no code was sent")
	}
	return n.sent[len(n.sent)-1]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// sequentialCodes yields 100001, 100002, ...
func sequentialCodes() func() (string, error) {
	var mu sync.Mutex
	n := 100000
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%06d", n), nil
	}
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		OTPValidityDuration:          10 * time.Minute,
		SessionTokenValidityDuration: time.Hour,
		S3Region:                     "us-east-1",
		S3RootUser:                   "minioadmin",
		S3RootPassword:               "minioadmin",
		S3BaseEndpoint:               "http://127.0.0.1:9000",
		S3Bucket:                     "whybudget-exports",
		ExportLinkValidityDuration:   15 * time.Minute,
	}
}

type authFixture struct {
	svc      *AuthService
	rm       *repomanager.MemoryRepositoryManager
	notifier *fakeNotifier
	clock    *fakeClock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	n := &fakeNotifier{}
	clock := &fakeClock{now: t0}

	svc := NewAuthService(rm, n, testConfig())
	svc.clock = clock.Now
	svc.generateCode = sequentialCodes()

	return &authFixture{svc: svc, rm: rm, notifier: n, clock: clock}
}

var errBoom = errors.New("boom")

// interleavedUsers runs before() right ahead of a write, standing in for a
// request that lands between this operation's read and its write.
type interleavedUsers struct {
	users.Repository
	before func()
}

func (u *interleavedUsers) runBefore() {
	if u.before != nil {
		f := u.before
		u.before = nil
		f()
	}
}

func (u *interleavedUsers) ConsumeChallenge(ctx context.Context, id, code string) error {
	u.runBefore()
	return u.Repository.ConsumeChallenge(ctx, id, code)
}

func (u *interleavedUsers) UpdateProfile(ctx context.Context, email string, patch *models.ProfilePatch) (*models.User, error) {
	u.runBefore()
	return u.Repository.UpdateProfile(ctx, email, patch)
}

func (u *interleavedUsers) SetPlan(ctx context.Context, email string, change *models.PlanChange) (*models.User, error) {
	u.runBefore()
	return u.Repository.SetPlan(ctx, email, change)
}

type interleavedManager struct {
	*repomanager.MemoryRepositoryManager
	users *interleavedUsers
}

func (m *interleavedManager) Users(dbx.DBTX) users.Repository { return m.users }

func newInterleavedManager(mem *repomanager.MemoryRepositoryManager) *interleavedManager {
	return &interleavedManager{MemoryRepositoryManager: mem, users: &interleavedUsers{Repository: mem.Users(nil)}}
}
