package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an HTTP boundary failure.
type Kind string

const (
	// KindTransport covers network failures where no response was received.
	KindTransport Kind = "transport"
	// KindUnauthorized is a 401; the interceptor has already purged the token.
	KindUnauthorized Kind = "unauthorized"
	// KindMalformed is a response the client could not interpret
	// (including an auth response missing its token field).
	KindMalformed Kind = "malformed"
	// KindRejected is any other server-side rejection (4xx/5xx).
	KindRejected Kind = "rejected"
)

// Error is the single error shape produced at the HTTP boundary.
// Downstream code never probes raw response bodies; it branches on Kind
// and, for business rejections, on Status.
type Error struct {
	Kind    Kind
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsUnauthorized reports whether err is a 401 boundary error.
func IsUnauthorized(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindUnauthorized
}

// IsStatus reports whether err is a boundary error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == status
}

// ErrorMessage extracts the human-readable message from a boundary error, or
// returns fallback when err carries none.
func ErrorMessage(err error, fallback string) string {
	var ae *Error
	if errors.As(err, &ae) && strings.TrimSpace(ae.Message) != "" {
		return ae.Message
	}
	return fallback
}

// serverError mirrors the backend's error envelope. Some routes wrap the
// code/message pair under "error", others return a bare "message".
type serverError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// errorFromResponse builds the boundary error for a non-2xx response.
func errorFromResponse(status int, body []byte) *Error {
	kind := KindRejected
	if status == 401 {
		kind = KindUnauthorized
	}

	msg := ""
	var se serverError
	if err := json.Unmarshal(body, &se); err == nil {
		switch {
		case se.Error != nil && strings.TrimSpace(se.Error.Message) != "":
			msg = se.Error.Message
		case strings.TrimSpace(se.Message) != "":
			msg = se.Message
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}

	return &Error{Kind: kind, Message: msg, Status: status}
}
