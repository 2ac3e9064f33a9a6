package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/swagftw/minichain/utl/server/fault"
)

const shutdownTimeout = 10 * time.Second

// InitEcho initializes the echo instance.
func InitEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.HTTPErrorHandler = fault.ErrorHandler

	return e
}

// StartHTTPServer blocks serving on addr. A graceful shutdown is not an error.
func StartHTTPServer(e *echo.Echo, addr string) error {
	err := e.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return errors.Wrap(err, "failed to start HTTP server")
}

// Shutdown stops the server, waiting for in-flight requests.
func Shutdown(e *echo.Echo) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Wrap(e.Shutdown(ctx), "failed to shut down HTTP server")
}
