// Package respond writes negotiated JSON or CBOR responses and RFC 9457
// problem details.
package respond

import (
	"fmt"
	"net/http"
)

// ProblemDetails is an RFC 9457 problem details body.
type ProblemDetails struct {
	Type     string        `json:"type"               cbor:"type"               example:"about:blank"`
	Title    string        `json:"title"              cbor:"title"              example:"Not Found"`
	Status   int           `json:"status"             cbor:"status"             example:"404"`
	Detail   string        `json:"detail,omitempty"   cbor:"detail,omitempty"   example:"profile not found"`
	Instance string        `json:"instance,omitempty" cbor:"instance,omitempty" example:"/v1/profiles/profile_0193"`
	Errors   []ErrorDetail `json:"errors,omitempty"   cbor:"errors,omitempty"`
}

// ErrorDetail is one field-level failure inside a problem.
type ErrorDetail struct {
	Message  string `json:"message"            cbor:"message"            example:"type must be one of the profile types"`
	Location string `json:"location,omitempty" cbor:"location,omitempty" example:"body.type"`
	Value    string `json:"value,omitempty"    cbor:"value,omitempty"    example:"blog"`
}

func (p *ProblemDetails) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%d %s: %s", p.Status, p.Title, p.Detail)
	}
	return fmt.Sprintf("%d %s", p.Status, p.Title)
}

// StatusCode implements echo.HTTPStatusCoder.
func (p *ProblemDetails) StatusCode() int {
	return p.Status
}

// NewError returns a problem with the given status and detail.
func NewError(status int, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

func Error400(detail string) *ProblemDetails { return NewError(http.StatusBadRequest, detail) }

func Error401(detail string) *ProblemDetails { return NewError(http.StatusUnauthorized, detail) }

func Error403(detail string) *ProblemDetails { return NewError(http.StatusForbidden, detail) }

func Error404(detail string) *ProblemDetails { return NewError(http.StatusNotFound, detail) }

func Error409(detail string) *ProblemDetails { return NewError(http.StatusConflict, detail) }

// Error422 returns an Unprocessable Entity problem carrying field errors.
func Error422(detail string, fields ...ErrorDetail) *ProblemDetails {
	p := NewError(http.StatusUnprocessableEntity, detail)
	p.Errors = fields
	return p
}

func Error500(detail string) *ProblemDetails { return NewError(http.StatusInternalServerError, detail) }

func Error503(detail string) *ProblemDetails { return NewError(http.StatusServiceUnavailable, detail) }

// Error507 reports that the backing store refused a write for lack of space.
func Error507(detail string) *ProblemDetails { return NewError(http.StatusInsufficientStorage, detail) }
