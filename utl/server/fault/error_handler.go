package fault

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeBlockNotFound = "BLOCK_NOT_FOUND"
	CodeNoSolution    = "NO_SOLUTION"
	CodeEcho          = "ECHO_ERROR"
	CodeUnknown       = "UNKNOWN_ERROR"
)

type HTTPError struct {
	ErrorCode  string `json:"errorCode"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func (he *HTTPError) Error() string {
	return he.Message
}

func New(code string, message string, statusCode int) error {
	return &HTTPError{
		ErrorCode:  code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// ErrorHandler renders every handler error as an HTTPError body.
func ErrorHandler(err error, ctx echo.Context) {
	if err == nil {
		return
	}

	httpError := new(HTTPError)

	switch e := err.(type) {
	case *HTTPError:
		httpError = e
	case *echo.HTTPError:
		httpError.StatusCode = e.Code
		httpError.Message = http.StatusText(e.Code)
		if msg, ok := e.Message.(string); ok {
			httpError.Message = msg
		}
		httpError.ErrorCode = CodeEcho
	default:
		httpError.StatusCode = http.StatusInternalServerError
		httpError.Message = err.Error()
		httpError.ErrorCode = CodeUnknown
	}

	if httpError.StatusCode >= http.StatusInternalServerError {
		slog.Error("Request failed", "path", ctx.Path(), "error", err)
	}

	// Send response
	if !ctx.Response().Committed {
		_ = ctx.JSON(httpError.StatusCode, httpError)
	}
}
