package report

import (
	"sort"
	"time"

	"github.com/jinzhu/now"

	bookingTypes "tripdesk/types/booking"
)

// Period selects the bucketing window of a chart.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Metric selects the value accumulated per bucket.
type Metric string

const (
	MetricCount   Metric = "count"
	MetricProfit  Metric = "profit"
	MetricRevenue Metric = "revenue"
)

// Series is one chart point.
type Series struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

func (p Period) IsValid() bool {
	return p == PeriodWeek || p == PeriodMonth || p == PeriodYear
}

func (m Metric) IsValid() bool {
	return m == MetricCount || m == MetricProfit || m == MetricRevenue
}

func metricValue(nb bookingTypes.Normalized, metric Metric) float64 {
	switch metric {
	case MetricProfit:
		return nb.Totals.Profit
	case MetricRevenue:
		return nb.Totals.TotalSale
	default:
		return 1
	}
}

// bookingDay parses the normalized creation date. ok is false for the records
// whose creation date did not survive normalization.
func bookingDay(nb bookingTypes.Normalized) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", nb.Dates.Booking)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AggregateByPeriod buckets bookings by creation date relative to today.
// Every bucket of the window is present even at zero value, so charts render
// empty slots as zero-height bars instead of skipping them. Bookings whose
// creation date could not be parsed cannot be placed in a bucket and are left
// out here, while FilterPeriod still counts them; the overview number is
// deliberately permissive where the chart is strict.
func AggregateByPeriod(bookings []bookingTypes.Normalized, period Period, metric Metric, today time.Time) []Series {
	switch period {
	case PeriodWeek:
		return weekSeries(bookings, metric, today)
	case PeriodMonth:
		return monthSeries(bookings, metric, today)
	case PeriodYear:
		return yearSeries(bookings, metric, today)
	default:
		return []Series{}
	}
}

// weekSeries is seven day buckets: today and the six preceding days.
func weekSeries(bookings []bookingTypes.Normalized, metric Metric, today time.Time) []Series {
	start := now.With(today).BeginningOfDay().AddDate(0, 0, -6)
	series := make([]Series, 7)
	index := map[string]int{}
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		series[i] = Series{Label: day.Format("Mon 02")}
		index[day.Format("2006-01-02")] = i
	}
	for _, nb := range bookings {
		if i, ok := index[nb.Dates.Booking]; ok {
			series[i].Value += metricValue(nb, metric)
		}
	}
	return series
}

// monthSeries is one bucket per day of the current month.
func monthSeries(bookings []bookingTypes.Normalized, metric Metric, today time.Time) []Series {
	days := now.With(today).EndOfMonth().Day()
	series := make([]Series, days)
	for i := range series {
		series[i] = Series{Label: time.Date(today.Year(), today.Month(), i+1, 0, 0, 0, 0, time.UTC).Format("02 Jan")}
	}
	for _, nb := range bookings {
		day, ok := bookingDay(nb)
		if !ok || day.Year() != today.Year() || day.Month() != today.Month() {
			continue
		}
		series[day.Day()-1].Value += metricValue(nb, metric)
	}
	return series
}

// yearSeries is twelve month buckets of the current year.
func yearSeries(bookings []bookingTypes.Normalized, metric Metric, today time.Time) []Series {
	series := make([]Series, 12)
	for i := range series {
		series[i] = Series{Label: time.Month(i + 1).String()[:3]}
	}
	for _, nb := range bookings {
		day, ok := bookingDay(nb)
		if !ok || day.Year() != today.Year() {
			continue
		}
		series[int(day.Month())-1].Value += metricValue(nb, metric)
	}
	return series
}

// FilterPeriod keeps the bookings whose creation date falls inside the
// period window. Records with an unknown creation date pass the filter; a
// booking must never disappear from the overview because its date failed to
// parse.
func FilterPeriod(bookings []bookingTypes.Normalized, period Period, today time.Time) []bookingTypes.Normalized {
	var start, end time.Time
	switch period {
	case PeriodWeek:
		start = now.With(today).BeginningOfDay().AddDate(0, 0, -6)
		end = now.With(today).EndOfDay()
	case PeriodMonth:
		start = now.With(today).BeginningOfMonth()
		end = now.With(today).EndOfMonth()
	case PeriodYear:
		start = now.With(today).BeginningOfYear()
		end = now.With(today).EndOfYear()
	default:
		return bookings
	}

	out := make([]bookingTypes.Normalized, 0, len(bookings))
	for _, nb := range bookings {
		day, ok := bookingDay(nb)
		if !ok || (!day.Before(start) && !day.After(end)) {
			out = append(out, nb)
		}
	}
	return out
}

// AggregateByAgent groups by the resolved agent name. Unlike the period
// buckets, zero-value groups are dropped, and the result is sorted by value
// descending with insertion order breaking ties.
func AggregateByAgent(bookings []bookingTypes.Normalized, metric Metric) []Series {
	order := make([]string, 0)
	sums := map[string]float64{}
	for _, nb := range bookings {
		name := nb.Agent.Name
		if name == "" {
			name = "Unassigned"
		}
		if _, seen := sums[name]; !seen {
			order = append(order, name)
		}
		sums[name] += metricValue(nb, metric)
	}

	series := make([]Series, 0, len(order))
	for _, name := range order {
		if sums[name] != 0 {
			series = append(series, Series{Label: name, Value: sums[name]})
		}
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Value > series[j].Value
	})
	return series
}

// Summary is the dashboard header roll-up over an already filtered list.
type SummaryTotals struct {
	Bookings  int     `json:"bookings"`
	TotalCost float64 `json:"totalCost"`
	TotalSale float64 `json:"totalSale"`
	Profit    float64 `json:"profit"`
}

func Summarize(bookings []bookingTypes.Normalized) SummaryTotals {
	s := SummaryTotals{Bookings: len(bookings)}
	for _, nb := range bookings {
		s.TotalCost += nb.Totals.TotalCost
		s.TotalSale += nb.Totals.TotalSale
	}
	s.Profit = s.TotalSale - s.TotalCost
	return s
}
