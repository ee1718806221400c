package report

import (
	"strings"
	"testing"
	"time"

	"github.com/mtamaki/office-peak/pkg/model"
)

func TestBarQuantization(t *testing.T) {
	if got := Bar(0, 10); got != "" {
		t.Errorf("zero value bar = %q, want empty", got)
	}
	if got := Bar(10, 10); got != strings.Repeat("█", barWidth) {
		t.Errorf("max bar = %q, want %d full cells", got, barWidth)
	}
	if got := Bar(5, 0); got != "" {
		t.Errorf("zero max bar = %q, want empty", got)
	}

	// Half of a 12-cell bar is exactly 6 full cells, no fraction.
	if got := Bar(5, 10); got != strings.Repeat("█", 6) {
		t.Errorf("half bar = %q, want 6 full cells", got)
	}

	// 1/96 of the scale is one eighth of one cell.
	got := Bar(1, 96)
	if got != "▏" {
		t.Errorf("smallest visible bar = %q, want one eighth block", got)
	}

	// Values above max clamp rather than overflow.
	if got := Bar(20, 10); got != strings.Repeat("█", barWidth) {
		t.Errorf("overflow bar = %q, want clamped to %d cells", got, barWidth)
	}
}

func TestDailyText(t *testing.T) {
	text := DailyText(12, "2025-08-29")
	if !strings.Contains(text, "*12 人*") || !strings.Contains(text, "2025-08-29") {
		t.Fatalf("unexpected daily text: %s", text)
	}
}

func TestRenderMonthlyBlockLayout(t *testing.T) {
	values := []model.DailyValue{
		{Date: "2025-08-01", Count: 5},
		{Date: "2025-08-02", Count: 9},
		{Date: "2025-08-03", Count: 3},
	}
	s := Summarize("2025-08", values, time.UTC)
	blocks := RenderMonthly(s)

	if len(blocks) == 0 || blocks[0].Type != "header" {
		t.Fatalf("expected header block first, got %+v", blocks)
	}
	if !strings.Contains(blocks[0].Text.Text, "2025-08") {
		t.Errorf("header missing month label: %s", blocks[0].Text.Text)
	}

	var joined strings.Builder
	for _, b := range blocks {
		if b.Text != nil {
			joined.WriteString(b.Text.Text)
			joined.WriteString("\n")
		}
	}
	all := joined.String()

	for _, want := range []string{
		"Days recorded: *3*",
		"Busiest day: *9* (2025-08-02)",
		"Quietest day: *3* (2025-08-03)",
		"Average by weekday",
		"Average by week",
		"Top 5 days",
		"2025-08-01",
	} {
		if !strings.Contains(all, want) {
			t.Errorf("rendered blocks missing %q", want)
		}
	}

	// Day table rows come sorted ascending.
	if strings.Index(all, "2025-08-01   5") > strings.Index(all, "2025-08-03   3") {
		t.Errorf("day table not ascending by date:\n%s", all)
	}
}
