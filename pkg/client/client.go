package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/swagftw/minichain/types"
	"github.com/swagftw/minichain/utl/server/fault"
)

const defaultTimeout = 30 * time.Second

// Client talks to the HTTP API of a running node.
type Client struct {
	rc *resty.Client
}

// Option configures the underlying resty client.
type Option func(*resty.Client)

// WithToken sends the JWT as a bearer token.
func WithToken(token string) Option {
	return func(rc *resty.Client) {
		if token != "" {
			rc.SetAuthToken(token)
		}
	}
}

// WithTimeout bounds every request. Mining requests can take a while.
func WithTimeout(timeout time.Duration) Option {
	return func(rc *resty.Client) {
		if timeout > 0 {
			rc.SetTimeout(timeout)
		}
	}
}

// New returns a client for the node at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")

	for _, opt := range opts {
		opt(rc)
	}

	return &Client{rc: rc}
}

func (c *Client) Chain(ctx context.Context) (*types.Blockchain, error) {
	chain := new(types.Blockchain)

	return chain, c.do(ctx, http.MethodGet, "/v1/chain", nil, chain)
}

func (c *Client) Block(ctx context.Context, index int) (*types.Block, error) {
	block := new(types.Block)

	return block, c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/chain/blocks/%d", index), nil, block)
}

func (c *Client) LastHash(ctx context.Context) (string, error) {
	lastHash := new(types.LastHash)

	return lastHash.Hash, c.do(ctx, http.MethodGet, "/v1/chain/last-hash", nil, lastHash)
}

func (c *Client) Validity(ctx context.Context) (*types.Validity, error) {
	validity := new(types.Validity)

	return validity, c.do(ctx, http.MethodGet, "/v1/chain/valid", nil, validity)
}

func (c *Client) Mine(ctx context.Context, transactions []types.Transaction) (*types.Block, error) {
	block := new(types.Block)
	req := types.MineRequest{Transactions: transactions}

	return block, c.do(ctx, http.MethodPost, "/v1/chain/mine", req, block)
}

// do sends the request and decodes the response into result. API errors come
// back as *fault.HTTPError.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	req := c.rc.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&fault.HTTPError{})

	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return errors.Wrapf(err, "%s %s failed", method, path)
	}

	if resp.IsError() {
		if httpErr, ok := resp.Error().(*fault.HTTPError); ok && httpErr.ErrorCode != "" {
			return httpErr
		}

		return fault.New(fault.CodeUnknown, resp.Status(), resp.StatusCode())
	}

	return nil
}
