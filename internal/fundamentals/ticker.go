package fundamentals

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wonny/stockscope/internal/contracts"
)

// Yahoo symbols: letters, digits and . - ^ = (BRK-B, ^GSPC, EURUSD=X, 005930.KS)
var tickerPattern = regexp.MustCompile(`^[A-Z0-9.\-^=]{1,15}$`)

// NormalizeTicker trims and upper-cases a ticker and rejects malformed input
func NormalizeTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return "", fmt.Errorf("%w: empty ticker", contracts.ErrInvalidTicker)
	}
	if !tickerPattern.MatchString(t) {
		return "", fmt.Errorf("%w: %q", contracts.ErrInvalidTicker, ticker)
	}
	return t, nil
}
