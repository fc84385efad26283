package collector

import (
	"errors"
	"fmt"

	"ChartFeed/internal/model"
)

var (
	ErrProviderNotFound = errors.New("history data provider not found")
	ErrAPIConfig        = errors.New("currency API is not configured")
	ErrAPIRequest       = errors.New("currency API request failed")
)

// ProviderNotFoundError reports a period type the resolver does not know.
type ProviderNotFoundError struct {
	Period model.PeriodType
}

func (e *ProviderNotFoundError) Error() string {
	return fmt.Sprintf("can't find history data provider for period type: [%s]", e.Period)
}

func (e *ProviderNotFoundError) Is(target error) bool { return target == ErrProviderNotFound }

// APIRequestError wraps a failed call to the history API.
type APIRequestError struct {
	Endpoint string
	Status   int // 0 when the request never got a response
	Err      error
}

func (e *APIRequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("currency API %s: status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("currency API %s: %v", e.Endpoint, e.Err)
}

func (e *APIRequestError) Unwrap() error { return e.Err }

func (e *APIRequestError) Is(target error) bool { return target == ErrAPIRequest }
