package contracts

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format of every observation date
const DateLayout = "2006-01-02"

// Observation is a single quarterly data point
type Observation struct {
	Date  time.Time
	Value float64
}

type observationJSON struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// MarshalJSON renders the period as a plain date
func (o Observation) MarshalJSON() ([]byte, error) {
	return json.Marshal(observationJSON{
		Date:  o.Date.Format(DateLayout),
		Value: o.Value,
	})
}

// UnmarshalJSON parses the plain date form written by MarshalJSON
func (o *Observation) UnmarshalJSON(data []byte) error {
	var raw observationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	date, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return fmt.Errorf("parse observation date %q: %w", raw.Date, err)
	}

	o.Date = date
	o.Value = raw.Value
	return nil
}

// MetricSeries is a date-ascending sequence of observations with unique dates
// and no NaN values. Every constructor in the fundamentals package keeps that
// invariant; callers must not append to a series by hand.
type MetricSeries []Observation

// Len returns the number of observations
func (s MetricSeries) Len() int {
	return len(s)
}

// IsEmpty reports whether the series has no observations
func (s MetricSeries) IsEmpty() bool {
	return len(s) == 0
}

// Tail returns the n most recent observations
func (s MetricSeries) Tail(n int) MetricSeries {
	if n >= len(s) {
		return s
	}
	if n <= 0 {
		return MetricSeries{}
	}
	return s[len(s)-n:]
}

// Window returns observations [len-from, len-to), counted back from the newest.
// Window(8, 4) is the four quarters preceding the latest four.
func (s MetricSeries) Window(from, to int) MetricSeries {
	start := len(s) - from
	end := len(s) - to
	if start < 0 {
		start = 0
	}
	if end < start {
		return MetricSeries{}
	}
	return s[start:end]
}

// Sum adds all observation values
func (s MetricSeries) Sum() float64 {
	total := 0.0
	for _, obs := range s {
		total += obs.Value
	}
	return total
}

// Latest returns the newest observation
func (s MetricSeries) Latest() (Observation, bool) {
	if len(s) == 0 {
		return Observation{}, false
	}
	return s[len(s)-1], true
}

// ValueAt returns the value observed on the given period date
func (s MetricSeries) ValueAt(date time.Time) (float64, bool) {
	for _, obs := range s {
		if obs.Date.Equal(date) {
			return obs.Value, true
		}
	}
	return 0, false
}

// Dates returns the period dates in ascending order
func (s MetricSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s))
	for i, obs := range s {
		dates[i] = obs.Date
	}
	return dates
}
