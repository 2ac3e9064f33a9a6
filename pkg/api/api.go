package api

import (
	"log/slog"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/vrecan/death/v3"
	"golang.org/x/sync/errgroup"

	"github.com/swagftw/minichain/pkg/blockchain"
	"github.com/swagftw/minichain/pkg/journal"
	"github.com/swagftw/minichain/pkg/ledger"
	"github.com/swagftw/minichain/transport"
	"github.com/swagftw/minichain/utl/config"
	"github.com/swagftw/minichain/utl/jwt"
	"github.com/swagftw/minichain/utl/metrics"
	"github.com/swagftw/minichain/utl/middleware"
	"github.com/swagftw/minichain/utl/server"
)

// API is a node serving one in-memory chain over HTTP.
type API struct {
	Echo *echo.Echo

	addr    string
	journal *journal.Journal
}

// New wires the ledger, its optional journal, metrics and auth into an echo
// instance. Call Close when done, or Run which closes on exit.
func New(cfg config.ServerConfig) (*API, error) {
	opts := []ledger.Option{ledger.WithChainOptions(blockchain.WithMiningLimit(cfg.MaxAttempts))}

	var handlerOpts transport.Options

	if cfg.EnableMetrics {
		handlerOpts.Metrics = metrics.New()
		opts = append(opts, ledger.WithMetrics(handlerOpts.Metrics))
	}

	if cfg.JWTSecret != "" {
		jwtService, err := jwt.New(cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			return nil, err
		}

		handlerOpts.Auth = middleware.JwtMiddleware(jwtService)
	}

	a := &API{addr: cfg.Addr}

	if cfg.JournalDir != "" {
		j, err := journal.Create(cfg.JournalDir)
		if err != nil {
			return nil, err
		}

		a.journal = j
		opts = append(opts, ledger.WithJournal(j))
	}

	chainService, err := ledger.New(opts...)
	if err != nil {
		_ = a.Close()

		return nil, err
	}

	a.Echo = server.InitEcho()
	transport.InitHandlers(a.Echo, chainService, handlerOpts)

	return a, nil
}

// Start starts the http api server and blocks until it stops.
func Start(cfg config.ServerConfig) error {
	a, err := New(cfg)
	if err != nil {
		return err
	}

	return a.Run()
}

// Run serves until the server fails or the process is signalled, then shuts
// down gracefully and closes the journal.
func (a *API) Run() error {
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to close journal", "error", err)
		}
	}()

	d := death.NewDeath(syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	var g errgroup.Group

	g.Go(func() error {
		slog.Info("Serving HTTP API", "addr", a.addr)

		err := server.StartHTTPServer(a.Echo, a.addr)
		d.FallOnSword()

		return err
	})

	g.Go(func() error {
		return d.WaitForDeath(echoCloser{a.Echo})
	})

	err := g.Wait()
	slog.Info("HTTP API stopped")

	return err
}

// Close releases the journal, if any.
func (a *API) Close() error {
	if a.journal == nil {
		return nil
	}

	return a.journal.Close()
}

type echoCloser struct {
	e *echo.Echo
}

func (c echoCloser) Close() error {
	return server.Shutdown(c.e)
}
