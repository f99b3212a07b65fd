package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingTypes "tripdesk/types/booking"
)

func booked(date string, sale, cost float64, agent string) bookingTypes.Normalized {
	return bookingTypes.Normalized{
		Dates:  bookingTypes.Dates{Booking: date},
		Totals: bookingTypes.Totals{TotalCost: cost, TotalSale: sale, Profit: sale - cost},
		Agent:  bookingTypes.Agent{Name: agent},
	}
}

var today = time.Date(2026, time.June, 17, 14, 30, 0, 0, time.UTC) // a Wednesday

func TestWeekSeriesShape(t *testing.T) {
	series := AggregateByPeriod(nil, PeriodWeek, MetricCount, today)

	require.Len(t, series, 7)
	assert.Equal(t, "Thu 11", series[0].Label)
	assert.Equal(t, "Wed 17", series[6].Label)
	for _, s := range series {
		assert.Equal(t, 0.0, s.Value)
	}
}

func TestWeekSeriesPlacement(t *testing.T) {
	bookings := []bookingTypes.Normalized{
		booked("2026-06-17", 100, 40, ""), // today
		booked("2026-06-11", 0, 0, ""),    // first bucket
		booked("2026-06-10", 0, 0, ""),    // one day out of window
		booked("", 0, 0, ""),              // unplaceable
	}
	series := AggregateByPeriod(bookings, PeriodWeek, MetricCount, today)

	require.Len(t, series, 7)
	assert.Equal(t, 1.0, series[0].Value)
	assert.Equal(t, 1.0, series[6].Value)
	total := 0.0
	for _, s := range series {
		total += s.Value
	}
	assert.Equal(t, 2.0, total)
}

func TestMonthSeriesDayCount(t *testing.T) {
	june := AggregateByPeriod(nil, PeriodMonth, MetricCount, today)
	require.Len(t, june, 30)
	assert.Equal(t, "01 Jun", june[0].Label)
	assert.Equal(t, "30 Jun", june[29].Label)

	feb := AggregateByPeriod(nil, PeriodMonth, MetricCount, time.Date(2028, time.February, 5, 0, 0, 0, 0, time.UTC))
	require.Len(t, feb, 29) // leap year
}

func TestMonthSeriesExcludesOtherMonths(t *testing.T) {
	bookings := []bookingTypes.Normalized{
		booked("2026-06-05", 200, 50, ""),
		booked("2026-05-05", 999, 0, ""), // previous month
		booked("2025-06-05", 999, 0, ""), // previous year, same month
	}
	series := AggregateByPeriod(bookings, PeriodMonth, MetricRevenue, today)

	assert.Equal(t, 200.0, series[4].Value)
	total := 0.0
	for _, s := range series {
		total += s.Value
	}
	assert.Equal(t, 200.0, total)
}

// Twelve buckets, always, even with no data at all.
func TestYearSeriesAlwaysTwelveBuckets(t *testing.T) {
	series := AggregateByPeriod(nil, PeriodYear, MetricProfit, today)

	require.Len(t, series, 12)
	assert.Equal(t, "Jan", series[0].Label)
	assert.Equal(t, "Dec", series[11].Label)

	bookings := []bookingTypes.Normalized{
		booked("2026-03-10", 300, 100, ""),
		booked("2026-03-20", 100, 50, ""),
		booked("2025-03-20", 999, 0, ""), // wrong year
	}
	series = AggregateByPeriod(bookings, PeriodYear, MetricProfit, today)
	require.Len(t, series, 12)
	assert.Equal(t, 250.0, series[2].Value)
}

func TestAggregateUnknownPeriodEmpty(t *testing.T) {
	series := AggregateByPeriod(nil, Period("decade"), MetricCount, today)
	assert.Empty(t, series)
}

func TestFilterPeriodKeepsUnparseableDates(t *testing.T) {
	bookings := []bookingTypes.Normalized{
		booked("2026-06-17", 0, 0, ""),
		booked("2026-01-02", 0, 0, ""),
		booked("", 0, 0, ""),
	}

	week := FilterPeriod(bookings, PeriodWeek, today)
	require.Len(t, week, 2)
	assert.Equal(t, "2026-06-17", week[0].Dates.Booking)
	assert.Equal(t, "", week[1].Dates.Booking)

	year := FilterPeriod(bookings, PeriodYear, today)
	assert.Len(t, year, 3)
}

func TestFilterPeriodMonthBounds(t *testing.T) {
	bookings := []bookingTypes.Normalized{
		booked("2026-06-01", 0, 0, ""),
		booked("2026-06-30", 0, 0, ""),
		booked("2026-05-31", 0, 0, ""),
		booked("2026-07-01", 0, 0, ""),
	}
	got := FilterPeriod(bookings, PeriodMonth, today)
	require.Len(t, got, 2)
}

func TestAggregateByAgentOrdering(t *testing.T) {
	bookings := []bookingTypes.Normalized{
		booked("2026-06-01", 100, 0, "Alice"),
		booked("2026-06-02", 300, 0, "Bob"),
		booked("2026-06-03", 200, 0, "Alice"),
		booked("2026-06-04", 0, 0, "Idle"),
		booked("2026-06-05", 0, 0, ""),
	}
	series := AggregateByAgent(bookings, MetricRevenue)

	// Alice and Bob tie at 300; insertion order breaks the tie.
	require.Len(t, series, 2)
	assert.Equal(t, Series{Label: "Alice", Value: 300}, series[0])
	assert.Equal(t, Series{Label: "Bob", Value: 300}, series[1])
}

func TestAggregateByAgentCountsUnassigned(t *testing.T) {
	bookings := []bookingTypes.Normalized{
		booked("2026-06-01", 0, 0, ""),
		booked("2026-06-02", 0, 0, "Unassigned"),
	}
	series := AggregateByAgent(bookings, MetricCount)

	require.Len(t, series, 1)
	assert.Equal(t, Series{Label: "Unassigned", Value: 2}, series[0])
}

func TestSummarize(t *testing.T) {
	bookings := []bookingTypes.Normalized{
		booked("2026-06-01", 500, 300, ""),
		booked("2026-06-02", 250, 100, ""),
	}
	s := Summarize(bookings)

	assert.Equal(t, SummaryTotals{Bookings: 2, TotalCost: 400, TotalSale: 750, Profit: 350}, s)
}
