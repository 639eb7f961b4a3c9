// Package notifier delivers one-time codes to users.
package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/whybudget/internal/logging"
)

// Supported notifier backends.
const (
	BackendBrevo = "brevo"
	BackendLog   = "log"
)

// Notifier sends code to email. Implementations may fail; callers decide
// what a failure means.
type Notifier interface {
	Notify(ctx context.Context, email, code string) error
}

// Options configures the notifier built by New.
type Options struct {
	Backend     string
	APIKey      string
	Endpoint    string
	SenderName  string
	SenderEmail string
	CodeTTL     time.Duration
}

// New returns the notifier for opts.Backend.
func New(opts Options, logger logging.Logger) (Notifier, error) {
	switch opts.Backend {
	case BackendBrevo:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("brevo notifier requires an api key")
		}
		return NewBrevoNotifier(&http.Client{Timeout: 10 * time.Second}, opts), nil
	case BackendLog:
		return NewLogNotifier(logger), nil
	default:
		return nil, fmt.Errorf("unknown notifier backend %q", opts.Backend)
	}
}
