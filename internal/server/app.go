// Package server wires configuration, storage, notifier and services
// together and runs the HTTP and gRPC servers until a shutdown signal.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/whybudget/internal/logging"
	"github.com/dmitrijs2005/whybudget/internal/server/config"
	"github.com/dmitrijs2005/whybudget/internal/server/identity"
	"github.com/dmitrijs2005/whybudget/internal/server/notifier"
	"github.com/dmitrijs2005/whybudget/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/whybudget/internal/server/rest"
	"github.com/dmitrijs2005/whybudget/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/whybudget/internal/server/grpc"
)

// logOutput is where the application logger writes.
var logOutput io.Writer = os.Stdout

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	httpServer  *rest.HTTPServer
	grpcServer  *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogFormat, logOutput)
	if err != nil {
		return nil, err
	}

	rm, err := repomanager.New(ctx, c.StorageBackend, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	n, err := notifier.New(notifier.Options{
		Backend:     c.NotifierBackend,
		APIKey:      c.BrevoAPIKey,
		Endpoint:    c.BrevoEndpoint,
		SenderName:  c.SenderName,
		SenderEmail: c.SenderEmail,
		CodeTTL:     c.OTPValidityDuration,
	}, logger)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("notifier init error: %w", err)
	}

	gw := identity.NewGateway([]byte(c.SecretKey), logger)

	handlers := &rest.Handlers{
		Auth:    services.NewAuthService(rm, n, c),
		Ledger:  services.NewLedgerService(rm),
		Profile: services.NewProfileService(rm),
		Export:  services.NewExportService(rm, c),
	}

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		httpServer:  rest.NewHTTPServer(c.EndpointAddrHTTP, logger, gw, handlers),
		grpcServer:  gs.NewGRPCServer(c.EndpointAddrGRPC, logger),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled, a signal arrives or either server
// fails, then stops both servers and closes storage.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.httpServer.Run(gctx)
	})
	g.Go(func() error {
		return app.grpcServer.Run(gctx)
	})

	err := g.Wait()
	if cerr := app.repomanager.Close(); cerr != nil && err == nil {
		err = cerr
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
