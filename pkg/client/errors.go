package client

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrorKind buckets API failures the way the UI layer handles them: network
// problems and generic failures become toasts, validation failures map back
// onto form fields, 403/404 become page banners.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindNetwork
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
)

const fallbackMessage = "Something went wrong. Please try again."

type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  map[string][]string // populated for KindValidation
	cause   error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fallbackMessage
}

func (e *APIError) Unwrap() error { return e.cause }

// AuthError marks a failed login (bad credentials or unreachable server).
type AuthError struct {
	Err *APIError
}

func (e *AuthError) Error() string { return "login failed: " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// netError wraps a transport-level failure (no response at all).
func netError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: "Cannot reach server", cause: err}
}

// responseError classifies a non-2xx response per the error taxonomy.
func responseError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Error  string              `json:"error"`
		Errors map[string][]string `json:"errors"`
	}
	_ = json.Unmarshal(body, &payload)

	apiErr := &APIError{Status: resp.StatusCode, Message: payload.Error}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		apiErr.Kind = KindUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		apiErr.Kind = KindForbidden
	case resp.StatusCode == http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case resp.StatusCode == http.StatusUnprocessableEntity, len(payload.Errors) > 0:
		apiErr.Kind = KindValidation
		apiErr.Fields = payload.Errors
	default:
		apiErr.Kind = KindGeneric
	}
	if apiErr.Message == "" && apiErr.Kind != KindValidation {
		apiErr.Message = fallbackMessage
	}
	return apiErr
}

// AsAPIError unwraps err into an *APIError if possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
