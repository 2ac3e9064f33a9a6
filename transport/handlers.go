package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swagftw/minichain/transport/blockchain"
	"github.com/swagftw/minichain/types"
	"github.com/swagftw/minichain/utl/metrics"
)

type Options struct {
	// Auth protects mutating endpoints. Nil leaves them open.
	Auth    echo.MiddlewareFunc
	Metrics *metrics.Metrics
}

// InitHandlers initializes all the handlers.
func InitHandlers(ech *echo.Echo, chainService types.ChainService, opts Options) {
	ech.GET("/ping", ping)

	if opts.Metrics != nil {
		ech.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}

	v1Group := ech.Group("/v1")
	blockchain.NewHTTP(v1Group, chainService, opts.Auth)
}

// ping is a simple health check endpoint.
func ping(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "pong")
}
