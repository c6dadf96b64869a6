package fundamentals

import (
	"math"
	"time"

	"github.com/wonny/stockscope/internal/contracts"
)

// fromMap builds a sorted series from per-period values
func fromMap(values map[time.Time]float64) contracts.MetricSeries {
	series := make(contracts.MetricSeries, 0, len(values))
	for date, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		series = append(series, contracts.Observation{Date: date, Value: v})
	}
	sortSeries(series)
	return series
}

// SumUnion adds two series per period over the union of their dates.
// A period missing on one side counts as zero for that side.
func SumUnion(a, b contracts.MetricSeries) contracts.MetricSeries {
	values := make(map[time.Time]float64, len(a)+len(b))
	for _, obs := range a {
		values[obs.Date] += obs.Value
	}
	for _, obs := range b {
		values[obs.Date] += obs.Value
	}
	return fromMap(values)
}

// AddOnto adds extra to base on base's periods only; extra periods absent
// from base are ignored and a base period without extra keeps its value.
func AddOnto(base, extra contracts.MetricSeries) contracts.MetricSeries {
	values := make(map[time.Time]float64, len(base))
	for _, obs := range base {
		values[obs.Date] = obs.Value
	}
	for _, obs := range extra {
		if _, ok := values[obs.Date]; ok {
			values[obs.Date] += obs.Value
		}
	}
	return fromMap(values)
}

// FreeCashFlow computes OCF − |CapEx| for periods present in both series
func FreeCashFlow(ocf, capex contracts.MetricSeries) contracts.MetricSeries {
	spend := make(map[time.Time]float64, len(capex))
	for _, obs := range capex {
		spend[obs.Date] = math.Abs(obs.Value)
	}

	values := make(map[time.Time]float64, len(ocf))
	for _, obs := range ocf {
		if c, ok := spend[obs.Date]; ok {
			values[obs.Date] = obs.Value - c
		}
	}
	return fromMap(values)
}

// RatioSeries divides num by den per matching period, skipping zero denominators
func RatioSeries(num, den contracts.MetricSeries) contracts.MetricSeries {
	denominators := make(map[time.Time]float64, len(den))
	for _, obs := range den {
		denominators[obs.Date] = obs.Value
	}

	values := make(map[time.Time]float64, len(num))
	for _, obs := range num {
		d, ok := denominators[obs.Date]
		if !ok || d == 0 {
			continue
		}
		values[obs.Date] = obs.Value / d
	}
	return fromMap(values)
}
