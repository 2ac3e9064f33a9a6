package blockchain

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/swagftw/minichain/pkg/blockchain"
	"github.com/swagftw/minichain/pkg/ledger"
	"github.com/swagftw/minichain/types"
	"github.com/swagftw/minichain/utl/common"
	"github.com/swagftw/minichain/utl/server/fault"
)

type httpHandler struct {
	chainService types.ChainService
}

// NewHTTP registers the chain handlers. Mining is wrapped by authMiddleware
// when one is given.
func NewHTTP(v1Group *echo.Group, chainService types.ChainService, authMiddleware echo.MiddlewareFunc) {
	h := &httpHandler{chainService: chainService}

	chainGroup := v1Group.Group("/chain")
	chainGroup.GET("", h.getBlockchain)
	chainGroup.GET("/blocks", h.getBlocks)
	chainGroup.GET("/blocks/:index", h.getBlock)
	chainGroup.GET("/last-hash", h.getLastHash)
	chainGroup.GET("/valid", h.getValidity)

	if authMiddleware != nil {
		chainGroup.POST("/mine", h.mine, authMiddleware)
	} else {
		chainGroup.POST("/mine", h.mine)
	}
}

// getBlockchain returns the blockchain.
func (h *httpHandler) getBlockchain(ctx echo.Context) error {
	chain, err := h.chainService.GetBlockchain(ctx.Request().Context())
	if err != nil {
		return mapError(err)
	}

	return ctx.JSON(http.StatusOK, chain)
}

// getBlocks returns the blocks in [start, end).
func (h *httpHandler) getBlocks(ctx echo.Context) error {
	start, err := queryInt(ctx, "start", 0)
	if err != nil {
		return err
	}

	end, err := queryInt(ctx, "end", 0)
	if err != nil {
		return err
	}

	blocks, err := h.chainService.GetBlocks(ctx.Request().Context(), start, end)
	if err != nil {
		return mapError(err)
	}

	return ctx.JSON(http.StatusOK, blocks)
}

func (h *httpHandler) getBlock(ctx echo.Context) error {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		return fault.New(fault.CodeBadRequest, "index must be an integer", http.StatusBadRequest)
	}

	block, err := h.chainService.GetBlock(ctx.Request().Context(), index)
	if err != nil {
		return mapError(err)
	}

	return ctx.JSON(http.StatusOK, block)
}

func (h *httpHandler) getLastHash(ctx echo.Context) error {
	hash, err := h.chainService.LastHash(ctx.Request().Context())
	if err != nil {
		return mapError(err)
	}

	return ctx.JSON(http.StatusOK, types.LastHash{Hash: hash})
}

func (h *httpHandler) getValidity(ctx echo.Context) error {
	validity, err := h.chainService.Validate(ctx.Request().Context())
	if err != nil {
		return mapError(err)
	}

	return ctx.JSON(http.StatusOK, validity)
}

// mine mines a block with the posted transactions and appends it.
func (h *httpHandler) mine(ctx echo.Context) error {
	req := new(types.MineRequest)
	if err := ctx.Bind(req); err != nil {
		return fault.New(fault.CodeBadRequest, "invalid mine request", http.StatusBadRequest)
	}

	block, err := h.chainService.Mine(ctx.Request().Context(), req.Transactions)
	if err != nil {
		return mapError(err)
	}

	slog.Debug("Mine request served", "index", block.Index, "subject", common.Subject(ctx))

	return ctx.JSON(http.StatusCreated, block)
}

func queryInt(ctx echo.Context, name string, fallback int) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fault.New(fault.CodeBadRequest, name+" must be an integer", http.StatusBadRequest)
	}

	return n, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, blockchain.ErrBlockNotFound):
		return fault.New(fault.CodeBlockNotFound, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidRange):
		return fault.New(fault.CodeBadRequest, err.Error(), http.StatusBadRequest)
	case errors.Is(err, blockchain.ErrNoSolution):
		return fault.New(fault.CodeNoSolution, err.Error(), http.StatusServiceUnavailable)
	default:
		return err
	}
}
