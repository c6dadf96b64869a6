package fundamentals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/stockscope/internal/contracts"
)

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"aapl", "AAPL", false},
		{"  msft ", "MSFT", false},
		{"BRK-B", "BRK-B", false},
		{"005930.ks", "005930.KS", false},
		{"^GSPC", "^GSPC", false},
		{"", "", true},
		{"   ", "", true},
		{"AAPL; DROP", "", true},
		{"A/B", "", true},
		{"ABCDEFGHIJKLMNOP", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeTicker(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, contracts.ErrInvalidTicker)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
