package report

import (
	"math"
	"sort"
	"time"

	"github.com/mtamaki/office-peak/pkg/model"
)

// Summarize reduces one month of daily peaks into summary statistics.
// Non-finite values are discarded rather than failing the whole report.
// Dates sort lexicographically, which is chronological for fixed-width
// YYYY-MM-DD strings.
func Summarize(month string, values []model.DailyValue, loc *time.Location) model.MonthlySummary {
	days := make([]model.DailyValue, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v.Count) || math.IsInf(v.Count, 0) {
			continue
		}
		days = append(days, v)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	summary := model.MonthlySummary{Month: month, Days: len(days), DailyValues: days}
	if len(days) == 0 {
		return summary
	}

	var sum float64
	summary.Max = days[0].Count
	summary.MaxDate = days[0].Date
	summary.Min = days[0].Count
	summary.MinDate = days[0].Date
	for _, d := range days {
		sum += d.Count
		if d.Count > summary.Max {
			summary.Max = d.Count
			summary.MaxDate = d.Date
		}
		if d.Count < summary.Min {
			summary.Min = d.Count
			summary.MinDate = d.Date
		}
	}
	summary.Mean = sum / float64(len(days))

	summary.ByWeekday = weekdayAverages(days, loc)
	summary.ByWeek = weekAverages(month, days, loc)
	summary.TopDays = topDays(days, 5)
	return summary
}

func weekdayAverages(days []model.DailyValue, loc *time.Location) []model.WeekdayAverage {
	var sums, counts [7]float64
	for _, d := range days {
		t, err := time.ParseInLocation("2006-01-02", d.Date, loc)
		if err != nil {
			continue
		}
		wd := int(t.Weekday())
		sums[wd] += d.Count
		counts[wd]++
	}
	var averages []model.WeekdayAverage
	for wd := 0; wd < 7; wd++ {
		if counts[wd] == 0 {
			continue
		}
		averages = append(averages, model.WeekdayAverage{
			Weekday: time.Weekday(wd),
			Average: sums[wd] / counts[wd],
		})
	}
	return averages
}

// weekAverages buckets days into calendar-aligned weeks: week 1 starts on the
// 1st of the month and may be partial, so the bucket index depends on the
// weekday offset of the month's first day.
func weekAverages(month string, days []model.DailyValue, loc *time.Location) []model.WeekAverage {
	first, err := time.ParseInLocation("2006-01-02", month+"-01", loc)
	if err != nil {
		return nil
	}
	offset := int(first.Weekday())

	sums := make(map[int]float64)
	counts := make(map[int]float64)
	for _, d := range days {
		t, err := time.ParseInLocation("2006-01-02", d.Date, loc)
		if err != nil {
			continue
		}
		week := (t.Day()+offset-1)/7 + 1
		sums[week] += d.Count
		counts[week]++
	}

	weeks := make([]int, 0, len(sums))
	for w := range sums {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	averages := make([]model.WeekAverage, 0, len(weeks))
	for _, w := range weeks {
		averages = append(averages, model.WeekAverage{Week: w, Average: sums[w] / counts[w]})
	}
	return averages
}

// topDays ranks days descending by value. Ties keep ascending date order.
func topDays(days []model.DailyValue, n int) []model.DailyValue {
	ranked := make([]model.DailyValue, len(days))
	copy(ranked, days)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// IsMonthEnd reports whether now is the last day of its month, using calendar
// arithmetic so variable month lengths and leap years are handled.
func IsMonthEnd(now time.Time) bool {
	tomorrow := now.AddDate(0, 0, 1)
	return tomorrow.Month() != now.Month()
}
