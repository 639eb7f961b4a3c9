package notifier

import (
	"context"

	"github.com/dmitrijs2005/whybudget/internal/logging"
)

// LogNotifier writes codes to the logger instead of sending them. Local use only.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, email, code string) error {
	n.logger.Info(ctx, "verification code", "email", email, "code", code)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
