package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures of the download pipeline
type ErrorKind string

const (
	KindInvalidURL ErrorKind = "InvalidUrl"
	KindHTTPStatus ErrorKind = "HttpStatusError"
	KindNetwork    ErrorKind = "NetworkError"
	KindIO         ErrorKind = "IOError"
	KindSubprocess ErrorKind = "SubprocessError"
)

// Sentinels for errors.Is checks against a kind
var (
	ErrInvalidURL = errors.New("invalid url")
	ErrHTTPStatus = errors.New("unexpected http status")
	ErrNetwork    = errors.New("network error")
	ErrIO         = errors.New("i/o error")
	ErrSubprocess = errors.New("subprocess error")
)

// Error is a pipeline failure of a given kind
type Error struct {
	Kind ErrorKind
	Op   string // short description of the failed step
	Code int    // HTTP status code for KindHTTPStatus
	Err  error
}

// NewError wraps err as a failure of the given kind
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// NewHTTPStatusError reports a non-success response status
func NewHTTPStatusError(code int) *Error {
	return &Error{Kind: KindHTTPStatus, Op: "failed to download", Code: code}
}

func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("%s: HTTP %d %s", e.Op, e.Code, http.StatusText(e.Code))
	}
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidURL:
		return ErrInvalidURL
	case KindHTTPStatus:
		return ErrHTTPStatus
	case KindNetwork:
		return ErrNetwork
	case KindIO:
		return ErrIO
	case KindSubprocess:
		return ErrSubprocess
	}
	return nil
}

// KindOf extracts the kind of a pipeline error anywhere in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// HTTPStatusCode returns the status code carried by an HttpStatusError, or 0
func HTTPStatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindHTTPStatus {
		return e.Code
	}
	return 0
}
