package contracts

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTicker is returned for an empty or malformed ticker
	ErrInvalidTicker = errors.New("invalid ticker")

	// ErrProviderUnavailable marks a statement fetch that failed or timed out.
	// It is recovered inside the pipeline and never reaches the caller.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrTickerRejected is returned when the provider refuses the ticker outright
	ErrTickerRejected = errors.New("ticker rejected by provider")

	// ErrTooManyTickers is returned when a batch exceeds its configured bound
	ErrTooManyTickers = errors.New("too many tickers")
)

// FetchError records a failed statement call for one ticker
type FetchError struct {
	Ticker    string
	Statement Statement
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s for %s: %v", e.Statement, e.Ticker, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes every FetchError match ErrProviderUnavailable
func (e *FetchError) Is(target error) bool {
	return target == ErrProviderUnavailable
}

// ErrInvalidRequest wraps request validation failures
var ErrInvalidRequest = errors.New("invalid request")
