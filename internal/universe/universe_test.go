package universe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockscope/pkg/logger"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []string
		wantErr bool
	}{
		{"array", `["aapl", " msft ", "AAPL"]`, []string{"AAPL", "MSFT"}, false},
		{"tickers object", `{"tickers": ["NVDA", "AMD"]}`, []string{"NVDA", "AMD"}, false},
		{"symbols object", `{"symbols": ["KO"]}`, []string{"KO"}, false},
		{"blank entries dropped", `["", "  ", "T"]`, []string{"T"}, false},
		{"empty", `[]`, nil, true},
		{"malformed", `{"tickers": 3}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmbedded(t *testing.T) {
	tickers := Embedded()
	require.NotEmpty(t, tickers)
	assert.LessOrEqual(t, len(tickers), 500)
	assert.Contains(t, tickers, "AAPL")
	assert.Contains(t, tickers, "BRK-B")

	// 호출자가 수정해도 다음 호출에 영향 없음
	tickers[0] = "MUTATED"
	assert.NotEqual(t, "MUTATED", Embedded()[0])
}

type failingLister struct{ err error }

func (f failingLister) Tickers(context.Context) ([]string, error) { return nil, f.err }

func TestSource(t *testing.T) {
	t.Run("primary wins", func(t *testing.T) {
		s := NewSource(Static{"AAA", "BBB"}, logger.Nop())
		got, err := s.Tickers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"AAA", "BBB"}, got)
	})

	t.Run("primary failure falls back", func(t *testing.T) {
		s := NewSource(failingLister{err: errors.New("db down")}, logger.Nop())
		got, err := s.Tickers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Embedded(), got)
	})

	t.Run("empty primary falls back", func(t *testing.T) {
		s := NewSource(Static{}, logger.Nop())
		got, err := s.Tickers(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, got)
	})

	t.Run("no primary", func(t *testing.T) {
		s := NewSource(nil, logger.Nop())
		got, err := s.Tickers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Embedded(), got)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := NewSource(failingLister{err: context.Canceled}, logger.Nop())
		_, err := s.Tickers(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
