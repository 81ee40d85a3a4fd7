package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrNetwork matches every upstream failure surfaced by the client.
	ErrNetwork = errors.New("catalog network error")

	// ErrEmptyBody is returned when the listing response carries no body.
	ErrEmptyBody = errors.New("empty response body")

	// ErrUnexpectedShape is returned when the body is neither an array nor a results object.
	ErrUnexpectedShape = errors.New("unexpected listing response shape")
)

// ErrorClass represents a classification of upstream errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport and timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents unparseable response bodies.
	ErrorClassDecode ErrorClass = "decode"
)

// APIError represents a failed product listing request.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("catalog %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is makes every APIError match ErrNetwork.
func (e *APIError) Is(target error) bool {
	return target == ErrNetwork
}

// classifyStatus maps an HTTP status code to an error class.
// Returns "" for success codes.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

func networkError(err error) *APIError {
	return &APIError{
		ErrorClass: ErrorClassNetwork,
		Message:    "request failed",
		Err:        err,
	}
}

func statusError(resp *http.Response) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		ErrorClass: classifyStatus(resp.StatusCode),
		Message:    resp.Status,
	}
}

func decodeError(statusCode int, err error) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorClass: ErrorClassDecode,
		Message:    "invalid listing body",
		Err:        err,
	}
}
