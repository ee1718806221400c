package report

import (
	"fmt"
	"strings"

	"github.com/mtamaki/office-peak/internal/platform/slack"
	"github.com/mtamaki/office-peak/pkg/model"
)

// barWidth is the number of full-block cells a month-maximum bar occupies.
const barWidth = 12

var partialBlocks = []rune("▏▎▍▌▋▊▉")

// Bar renders a proportional indicator for value relative to max: full-block
// cells plus at most one fractional cell with eighth-block granularity.
func Bar(value, max float64) string {
	if max <= 0 || value <= 0 {
		return ""
	}
	if value > max {
		value = max
	}
	scaled := value / max * barWidth
	full := int(scaled)
	eighths := int((scaled - float64(full)) * 8)

	var b strings.Builder
	for i := 0; i < full; i++ {
		b.WriteRune('█')
	}
	if eighths > 0 {
		b.WriteRune(partialBlocks[eighths-1])
	}
	return b.String()
}

// DailyText formats the daily peak notification.
func DailyText(peak int64, date string) string {
	return fmt.Sprintf("本日の在席ピークは *%d 人* でした。（%s）", peak, date)
}

// RenderMonthly formats a monthly summary as Slack blocks: header, summary,
// weekday averages, week-of-month averages, top-5 days, and a per-day table
// with proportional bars.
func RenderMonthly(s model.MonthlySummary) []slack.Block {
	blocks := []slack.Block{
		slack.Header(fmt.Sprintf("📊 Office occupancy report — %s", s.Month)),
		slack.Section(fmt.Sprintf(
			"Days recorded: *%d*\nAverage peak: *%.1f*\nBusiest day: *%.0f* (%s)\nQuietest day: *%.0f* (%s)",
			s.Days, s.Mean, s.Max, s.MaxDate, s.Min, s.MinDate,
		)),
		slack.Divider(),
	}

	if len(s.ByWeekday) > 0 {
		var lines []string
		for _, w := range s.ByWeekday {
			lines = append(lines, fmt.Sprintf("%s: %.1f", w.Weekday.String()[:3], w.Average))
		}
		blocks = append(blocks, slack.Section("*Average by weekday*\n"+strings.Join(lines, "\n")))
	}

	if len(s.ByWeek) > 0 {
		var lines []string
		for _, w := range s.ByWeek {
			lines = append(lines, fmt.Sprintf("Week %d: %.1f", w.Week, w.Average))
		}
		blocks = append(blocks, slack.Section("*Average by week*\n"+strings.Join(lines, "\n")))
	}

	if len(s.TopDays) > 0 {
		var lines []string
		for i, d := range s.TopDays {
			lines = append(lines, fmt.Sprintf("%d. %s — %.0f", i+1, d.Date, d.Count))
		}
		blocks = append(blocks, slack.Section("*Top 5 days*\n"+strings.Join(lines, "\n")))
	}

	if len(s.DailyValues) > 0 {
		var lines []string
		for _, d := range s.DailyValues {
			lines = append(lines, fmt.Sprintf("%s %3.0f %s", d.Date, d.Count, Bar(d.Count, s.Max)))
		}
		blocks = append(blocks,
			slack.Divider(),
			slack.Section("```\n"+strings.Join(lines, "\n")+"\n```"),
		)
	}

	return blocks
}
