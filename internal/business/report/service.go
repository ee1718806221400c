package report

import (
	"context"
	"log"
	"time"

	"github.com/mtamaki/office-peak/internal/platform/slack"
	"github.com/mtamaki/office-peak/pkg/model"
)

// PeakReader reads the stored daily maximum for a date.
type PeakReader interface {
	Get(ctx context.Context, date string) (int64, bool, error)
}

// HistoryStore persists finalized daily peaks and lists them per month.
type HistoryStore interface {
	Put(ctx context.Context, date string, count int64) error
	ListMonth(ctx context.Context, month string) ([]model.DailyValue, error)
}

// Notifier is the write-only notification sink.
type Notifier interface {
	PostText(ctx context.Context, text string) error
	PostBlocks(ctx context.Context, blocks []slack.Block) error
}

// Service produces the daily peak notification and the month-end rollup.
type Service struct {
	peaks    PeakReader
	history  HistoryStore
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

func NewService(peaks PeakReader, history HistoryStore, notifier Notifier, loc *time.Location) *Service {
	return &Service{
		peaks:    peaks,
		history:  history,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

// DailyReport posts today's peak and archives it into the monthly history.
// The daily_peaks entry is left to expire on its own; the archive write is an
// idempotent overwrite, so reporting the same date twice does not double-count.
func (s *Service) DailyReport(ctx context.Context) error {
	today := s.now().In(s.loc).Format("2006-01-02")

	peak, _, err := s.peaks.Get(ctx, today)
	if err != nil {
		return err
	}
	if err := s.notifier.PostText(ctx, DailyText(peak, today)); err != nil {
		return err
	}
	if err := s.history.Put(ctx, today, peak); err != nil {
		return err
	}
	log.Printf("daily report %s: peak=%d", today, peak)
	return nil
}

// MonthEndCheck fires the monthly report when today is the last day of the
// month. Called once daily; it is a no-op on every other day.
func (s *Service) MonthEndCheck(ctx context.Context) error {
	today := s.now().In(s.loc)
	if !IsMonthEnd(today) {
		return nil
	}
	return s.MonthlyReport(ctx, today.Format("2006-01"))
}

// MonthlyReport aggregates the month's recorded peaks and posts the rollup.
// A month with no history entries produces no notification at all. History
// entries are never deleted; retention relies on expiration alone.
func (s *Service) MonthlyReport(ctx context.Context, month string) error {
	values, err := s.history.ListMonth(ctx, month)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		log.Printf("monthly report %s: no history recorded, skipping", month)
		return nil
	}

	summary := Summarize(month, values, s.loc)
	if err := s.notifier.PostBlocks(ctx, RenderMonthly(summary)); err != nil {
		return err
	}
	log.Printf("monthly report %s: days=%d mean=%.1f max=%.0f", month, summary.Days, summary.Mean, summary.Max)
	return nil
}
