package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork covers transport failures, timeouts, throttling and 5xx
	// responses from an upstream provider
	ErrNetwork = errors.New("network error")
	// ErrProviderFormat means a response arrived but did not contain the
	// fields we expect. usually an upstream API change, not an outage
	ErrProviderFormat = errors.New("provider format error")
	ErrValidation     = errors.New("validation error")
	ErrShapeMismatch  = errors.New("shape mismatch")
	ErrNotFound       = errors.New("not found")
)

func NewNetworkError(provider string, err error) error {
	return fmt.Errorf("%s: %w: %w", provider, ErrNetwork, err)
}

func NewProviderFormatError(provider string, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", provider, ErrProviderFormat, fmt.Sprintf(format, args...))
}

func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// FetchError is returned by the quote cache when the provider chain could
// not produce a series. the previously cached entry (if any) is untouched
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch quotes for %s: %s", e.Symbol, e.Err.Error())
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type ShapeMismatchError struct {
	NumTickers int
	NumWeights int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("optimizer result has %d tickers but %d weights", e.NumTickers, e.NumWeights)
}

func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}
