package fundamentals

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/stockscope/internal/contracts"
)

// periodLayouts are the period key formats seen from the provider
var periodLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	"20060102",
	"2006/01/02",
}

// Extract turns a raw row into a clean date-ascending series.
// Entries whose value is not numeric (or NaN/Inf) or whose key is not a date
// are dropped. When two keys parse to the same date the lexically first key wins.
func Extract(raw contracts.RawSeries) contracts.MetricSeries {
	if len(raw) == 0 {
		return contracts.MetricSeries{}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[time.Time]bool, len(keys))
	series := make(contracts.MetricSeries, 0, len(keys))

	for _, key := range keys {
		value, ok := coerceNumber(raw[key])
		if !ok {
			continue
		}
		date, ok := ParsePeriod(key)
		if !ok || seen[date] {
			continue
		}
		seen[date] = true
		series = append(series, contracts.Observation{Date: date, Value: value})
	}

	sortSeries(series)
	return series
}

// ParsePeriod normalizes a provider period key to a UTC calendar date
func ParsePeriod(key string) (time.Time, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return time.Time{}, false
	}

	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, key); err == nil {
			return toDate(t), true
		}
	}

	// Epoch seconds or milliseconds
	if n, err := strconv.ParseInt(key, 10, 64); err == nil {
		switch {
		case len(key) == 13:
			return toDate(time.UnixMilli(n)), true
		case len(key) == 10:
			return toDate(time.Unix(n, 0)), true
		}
	}

	return time.Time{}, false
}

func toDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// coerceNumber converts a raw provider value to a finite float
func coerceNumber(v any) (float64, bool) {
	var f float64

	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case *float64:
		if n == nil {
			return 0, false
		}
		f = *n
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func sortSeries(s contracts.MetricSeries) {
	sort.Slice(s, func(i, j int) bool {
		return s[i].Date.Before(s[j].Date)
	})
}
