// Package universe supplies the default ticker universe for the screener.
package universe

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wonny/stockscope/internal/fundamentals"
	"github.com/wonny/stockscope/pkg/logger"
)

//go:embed sp500.json
var sp500JSON []byte

// Fallback is served when no other list can be loaded
var Fallback = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "BRK-B",
	"JPM", "JNJ", "V", "PG", "UNH", "HD", "MA", "DIS", "PYPL", "ADBE",
	"NFLX", "INTC", "CRM", "VZ", "T", "PFE", "WMT", "BAC", "KO", "NKE",
}

// ErrEmpty is returned when a universe list holds no tickers
var ErrEmpty = errors.New("universe is empty")

// Parse decodes a ticker list. A bare array, {"tickers": [...]} and
// {"symbols": [...]} are accepted. Tickers are normalized and de-duplicated
// keeping first-seen order.
func Parse(data []byte) ([]string, error) {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		var obj struct {
			Tickers []string `json:"tickers"`
			Symbols []string `json:"symbols"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("decode universe: %w", err)
		}
		list = obj.Tickers
		if len(list) == 0 {
			list = obj.Symbols
		}
	}

	tickers := normalize(list)
	if len(tickers) == 0 {
		return nil, ErrEmpty
	}
	return tickers, nil
}

func normalize(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, raw := range list {
		t, err := fundamentals.NormalizeTicker(raw)
		if err != nil || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Embedded returns the bundled S&P 500 list, or Fallback if it cannot be decoded
func Embedded() []string {
	tickers, err := Parse(sp500JSON)
	if err != nil {
		return append([]string(nil), Fallback...)
	}
	return tickers
}

// Static serves a fixed ticker list
type Static []string

// Tickers returns a copy of the list
func (s Static) Tickers(_ context.Context) ([]string, error) {
	if len(s) == 0 {
		return nil, ErrEmpty
	}
	return append([]string(nil), s...), nil
}

// Lister is any universe source
type Lister interface {
	Tickers(ctx context.Context) ([]string, error)
}

// Source reads the primary lister and falls back to the embedded list
// when it fails or comes back empty.
// ⭐ SSOT: 스크리너 유니버스는 여기서만 결정
type Source struct {
	primary Lister
	logger  *logger.Logger
}

// NewSource creates a universe source. primary may be nil.
func NewSource(primary Lister, log *logger.Logger) *Source {
	return &Source{
		primary: primary,
		logger:  log.WithComponent("universe"),
	}
}

// Tickers returns the current universe
func (s *Source) Tickers(ctx context.Context) ([]string, error) {
	if s.primary != nil {
		tickers, err := s.primary.Tickers(ctx)
		if err == nil && len(tickers) > 0 {
			return tickers, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.WithFields(map[string]interface{}{
			"error": fmt.Sprint(err),
		}).Warn("Universe source unavailable, using embedded list")
	}
	return Embedded(), nil
}
