package report

import (
	"math"
	"testing"
	"time"

	"github.com/mtamaki/office-peak/pkg/model"
)

func TestSummarizeBasics(t *testing.T) {
	values := []model.DailyValue{
		{Date: "2025-08-02", Count: 9},
		{Date: "2025-08-01", Count: 5},
		{Date: "2025-08-03", Count: 3},
	}
	s := Summarize("2025-08", values, time.UTC)

	if s.Days != 3 {
		t.Fatalf("days = %d, want 3", s.Days)
	}
	if s.Max != 9 || s.MaxDate != "2025-08-02" {
		t.Errorf("max = %.0f (%s), want 9 (2025-08-02)", s.Max, s.MaxDate)
	}
	if s.Min != 3 || s.MinDate != "2025-08-03" {
		t.Errorf("min = %.0f (%s), want 3 (2025-08-03)", s.Min, s.MinDate)
	}
	if math.Abs(s.Mean-17.0/3.0) > 1e-9 {
		t.Errorf("mean = %f, want %f", s.Mean, 17.0/3.0)
	}
	if len(s.DailyValues) != 3 || s.DailyValues[0].Date != "2025-08-01" || s.DailyValues[2].Date != "2025-08-03" {
		t.Errorf("day table not sorted ascending: %v", s.DailyValues)
	}
}

func TestSummarizeTieFirstOccurrenceWins(t *testing.T) {
	values := []model.DailyValue{
		{Date: "2025-08-04", Count: 7},
		{Date: "2025-08-01", Count: 7},
		{Date: "2025-08-02", Count: 2},
		{Date: "2025-08-03", Count: 2},
	}
	s := Summarize("2025-08", values, time.UTC)
	if s.MaxDate != "2025-08-01" {
		t.Errorf("max tie must keep earliest date, got %s", s.MaxDate)
	}
	if s.MinDate != "2025-08-02" {
		t.Errorf("min tie must keep earliest date, got %s", s.MinDate)
	}
}

func TestSummarizeDiscardsNonFinite(t *testing.T) {
	values := []model.DailyValue{
		{Date: "2025-08-01", Count: 5},
		{Date: "2025-08-02", Count: math.NaN()},
		{Date: "2025-08-03", Count: math.Inf(1)},
	}
	s := Summarize("2025-08", values, time.UTC)
	if s.Days != 1 {
		t.Fatalf("days = %d, want 1 after discarding non-finite values", s.Days)
	}
	if s.Mean != 5 {
		t.Fatalf("mean = %f, want 5", s.Mean)
	}
}

func TestSummarizeWeekdayBuckets(t *testing.T) {
	// 2025-08-04 and 2025-08-11 are Mondays, 2025-08-05 a Tuesday.
	values := []model.DailyValue{
		{Date: "2025-08-04", Count: 4},
		{Date: "2025-08-11", Count: 8},
		{Date: "2025-08-05", Count: 10},
	}
	s := Summarize("2025-08", values, time.UTC)

	if len(s.ByWeekday) != 2 {
		t.Fatalf("expected 2 weekday buckets, got %d", len(s.ByWeekday))
	}
	mon := s.ByWeekday[0]
	if mon.Weekday != time.Monday || mon.Average != 6 {
		t.Errorf("monday bucket = %v %.1f, want Monday 6.0", mon.Weekday, mon.Average)
	}
	tue := s.ByWeekday[1]
	if tue.Weekday != time.Tuesday || tue.Average != 10 {
		t.Errorf("tuesday bucket = %v %.1f, want Tuesday 10.0", tue.Weekday, tue.Average)
	}
}

func TestSummarizeWeekOfMonthBuckets(t *testing.T) {
	// August 2025 starts on a Friday (weekday 5): the 1st and 2nd are week 1,
	// the 3rd through 9th week 2.
	values := []model.DailyValue{
		{Date: "2025-08-01", Count: 2},
		{Date: "2025-08-02", Count: 4},
		{Date: "2025-08-04", Count: 9},
	}
	s := Summarize("2025-08", values, time.UTC)

	if len(s.ByWeek) != 2 {
		t.Fatalf("expected 2 week buckets, got %d: %v", len(s.ByWeek), s.ByWeek)
	}
	if s.ByWeek[0].Week != 1 || s.ByWeek[0].Average != 3 {
		t.Errorf("week 1 = %+v, want week 1 avg 3", s.ByWeek[0])
	}
	if s.ByWeek[1].Week != 2 || s.ByWeek[1].Average != 9 {
		t.Errorf("week 2 = %+v, want week 2 avg 9", s.ByWeek[1])
	}
}

func TestSummarizeTopDays(t *testing.T) {
	values := []model.DailyValue{
		{Date: "2025-08-01", Count: 1},
		{Date: "2025-08-02", Count: 6},
		{Date: "2025-08-03", Count: 6},
		{Date: "2025-08-04", Count: 9},
		{Date: "2025-08-05", Count: 2},
		{Date: "2025-08-06", Count: 5},
	}
	s := Summarize("2025-08", values, time.UTC)

	if len(s.TopDays) != 5 {
		t.Fatalf("expected top 5, got %d", len(s.TopDays))
	}
	if s.TopDays[0].Date != "2025-08-04" {
		t.Errorf("top day = %s, want 2025-08-04", s.TopDays[0].Date)
	}
	// Tie between 08-02 and 08-03 keeps ascending date order.
	if s.TopDays[1].Date != "2025-08-02" || s.TopDays[2].Date != "2025-08-03" {
		t.Errorf("tie order wrong: %v", s.TopDays[:3])
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize("2025-08", nil, time.UTC)
	if s.Days != 0 || s.Mean != 0 || len(s.TopDays) != 0 {
		t.Fatalf("empty month must produce a zero summary, got %+v", s)
	}
}

func TestIsMonthEnd(t *testing.T) {
	cases := []struct {
		date string
		want bool
	}{
		{"2025-02-28", true},  // non-leap year
		{"2024-02-28", false}, // leap year: Feb 29 exists
		{"2024-02-29", true},
		{"2025-08-31", true},
		{"2025-08-30", false},
		{"2025-12-31", true},
		{"2025-04-30", true},
	}
	for _, tc := range cases {
		now, err := time.ParseInLocation("2006-01-02", tc.date, time.UTC)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.date, err)
		}
		if got := IsMonthEnd(now); got != tc.want {
			t.Errorf("IsMonthEnd(%s) = %v, want %v", tc.date, got, tc.want)
		}
	}
}
