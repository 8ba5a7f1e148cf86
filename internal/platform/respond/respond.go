package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/fxamacker/cbor/v2"
	"github.com/labstack/echo/v5"

	applog "github.com/janisto/linkbio/internal/platform/logging"
	"github.com/janisto/linkbio/internal/platform/validate"
)

// Negotiate writes data as CBOR or JSON depending on the Accept header.
func Negotiate(c *echo.Context, status int, data any) error {
	ensureVary(c.Response().Header(), "Accept")
	if preferCBOR(c.Request().Header.Get("Accept")) {
		b, err := cbor.Marshal(data)
		if err != nil {
			return err
		}
		return c.Blob(status, "application/cbor", b)
	}
	return c.JSON(status, data)
}

// Created writes data with 201 and a Location header.
func Created(c *echo.Context, location string, data any) error {
	c.Response().Header().Set("Location", location)
	return Negotiate(c, http.StatusCreated, data)
}

// writeProblem writes problem as application/problem+json, or
// application/problem+cbor when the client prefers CBOR.
func writeProblem(w http.ResponseWriter, r *http.Request, problem ProblemDetails) {
	ensureVary(w.Header(), "Origin", "Accept")
	if problem.Instance == "" && r.URL != nil {
		problem.Instance = r.URL.Path
	}

	if preferCBOR(r.Header.Get("Accept")) {
		w.Header().Set("Content-Type", "application/problem+cbor")
		w.WriteHeader(problem.Status)
		_ = cbor.NewEncoder(w).Encode(problem)
		return
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(problem)
}

func isCommitted(c *echo.Context) bool {
	resp, err := echo.UnwrapResponse(c.Response())
	return err == nil && resp.Committed
}

// Recoverer turns panics into 500 problems. http.ErrAbortHandler is re-raised
// so net/http can abort the connection.
func Recoverer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				applog.LogError(c.Request().Context(), "panic recovered", fmt.Errorf("%v", rec),
					slog.String("stack", string(debug.Stack())))

				if isCommitted(c) {
					return
				}
				writeProblem(c.Response(), c.Request(), *Error500("internal server error"))
			}()
			return next(c)
		}
	}
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler writing problem details.
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(c *echo.Context, err error) {
		if isCommitted(c) {
			return
		}
		writeProblem(c.Response(), c.Request(), toProblem(c, err))
	}
}

func toProblem(c *echo.Context, err error) ProblemDetails {
	var (
		pd *ProblemDetails
		ve *validate.ValidationError
		he *echo.HTTPError
	)

	switch {
	case errors.As(err, &pd):
		return *pd

	case errors.As(err, &ve):
		fields := make([]ErrorDetail, 0, len(ve.Fields))
		for _, f := range ve.Fields {
			fields = append(fields, ErrorDetail{Message: f.Message, Location: f.Field, Value: f.Value})
		}
		return *Error422(ve.Message, fields...)

	case errors.Is(err, echo.ErrNotFound):
		return *Error404("resource not found")

	case errors.Is(err, echo.ErrMethodNotAllowed):
		return *NewError(http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", c.Request().Method))

	case errors.As(err, &he):
		return *NewError(he.Code, he.Message)
	}

	applog.LogError(c.Request().Context(), "unhandled error", err)
	return *Error500("internal server error")
}
