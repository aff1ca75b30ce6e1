package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodePortalError = "PORTAL_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeValidation  = "VALIDATION_ERROR"
	CodeCache       = "CACHE_ERROR"
	CodeService     = "SERVICE_ERROR"
	CodeScrape      = "SCRAPE_ERROR"
)

type PortalError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *PortalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PortalError) Unwrap() error {
	return e.Cause
}

// Base exposes the shared error fields; promoted through every wrapper type.
func (e *PortalError) Base() *PortalError {
	return e
}

type baser interface {
	Base() *PortalError
}

// AsPortalError finds the first PortalError (or wrapper embedding one) in err's chain.
func AsPortalError(err error) (*PortalError, bool) {
	var b baser
	if stderrors.As(err, &b) {
		return b.Base(), true
	}
	return nil, false
}

// StatusCode returns the HTTP status carried by err, or 500.
func StatusCode(err error) int {
	if pe, ok := AsPortalError(err); ok && pe.StatusCode != 0 {
		return pe.StatusCode
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool {
	pe, ok := AsPortalError(err)
	return ok && pe.Code == CodeNotFound
}

func NewPortalError(message, code string, statusCode int, context map[string]any) *PortalError {
	return &PortalError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *PortalError) WithCause(cause error) *PortalError {
	e.Cause = cause
	return e
}

type NotFoundError struct {
	*PortalError
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		PortalError: &PortalError{
			Message:    fmt.Sprintf("%s not found: %s", resource, id),
			Code:       CodeNotFound,
			StatusCode: http.StatusNotFound,
			Context: map[string]any{
				"resource": resource,
				"id":       id,
			},
		},
		Resource: resource,
		ID:       id,
	}
}

type ValidationError struct {
	*PortalError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		PortalError: &PortalError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: http.StatusBadRequest,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*PortalError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		PortalError: &PortalError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: http.StatusInternalServerError,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*PortalError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		PortalError: &PortalError{
			Message:    message,
			Code:       CodeService,
			StatusCode: http.StatusInternalServerError,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}

// ScrapeError reports a failed fetch or parse of a single portal page.
type ScrapeError struct {
	*PortalError
	Source string
	Team   string
	URL    string
}

func NewScrapeError(message, source, team, url string, cause error) *ScrapeError {
	return &ScrapeError{
		PortalError: &PortalError{
			Message:    message,
			Code:       CodeScrape,
			StatusCode: http.StatusBadGateway,
			Context: map[string]any{
				"source": source,
				"team":   team,
				"url":    url,
			},
			Cause: cause,
		},
		Source: source,
		Team:   team,
		URL:    url,
	}
}
