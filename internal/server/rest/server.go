// Package rest serves the JSON HTTP API with fiber.
package rest

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/whybudget/internal/logging"
	"github.com/dmitrijs2005/whybudget/internal/server/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const shutdownTimeout = 10 * time.Second

func init() {
	// amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type HTTPServer struct {
	address string
	app     *fiber.App
	logger  logging.Logger
	serving atomic.Bool
}

func NewHTTPServer(a string, l logging.Logger, gw *identity.Gateway, h *Handlers) *HTTPServer {
	s := &HTTPServer{
		address: a,
		logger:  l.With("module", "http_server"),
	}
	s.serving.Store(true)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(s.logger),
	})

	app.Use(requestLogger(s.logger))
	app.Get("/healthz", s.health)

	api := app.Group("/api", resolveCaller(gw))

	tx := api.Group("/transactions")
	tx.Get("/", h.ListTransactions)
	tx.Post("/", h.CreateTransaction)
	tx.Post("/export", h.ExportTransactions)
	tx.Put("/:id", h.UpdateTransaction)
	tx.Delete("/:id", h.DeleteTransaction)

	users := api.Group("/users")
	users.Post("/request-otp", h.RequestOTP)
	users.Post("/verify-otp", h.VerifyOTP)
	users.Post("/update-profile", h.UpdateProfile)
	users.Post("/select-plan", h.SelectPlan)

	s.app = app
	return s
}

// App exposes the fiber app, mainly for in-process tests.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

// SetServing flips what /healthz reports.
func (s *HTTPServer) SetServing(v bool) {
	s.serving.Store(v)
}

func (s *HTTPServer) health(c *fiber.Ctx) error {
	if !s.serving.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "shutting down"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Run listens until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listener(listen)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	s.SetServing(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := s.app.ShutdownWithContext(shutdownCtx)

	// unblocks Serve if shutdown raced ahead of it
	_ = listen.Close()
	if err := <-errCh; err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return shutdownErr
}
