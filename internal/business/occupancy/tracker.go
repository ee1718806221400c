package occupancy

import (
	"context"
	"log"
	"time"
)

// PeakStore persists the running daily maximum. The concrete implementation
// lives in internal/repository.
type PeakStore interface {
	Get(ctx context.Context, date string) (int64, bool, error)
	Set(ctx context.Context, date string, count int64) error
}

// Tracker polls the inventory source and keeps the stored per-day maximum
// up to date. Concurrent polls race on last-write-wins put semantics; a lost
// update only lowers the stored value transiently and the next poll corrects it.
type Tracker struct {
	source DeviceSource
	peaks  PeakStore
	ranges []string
	loc    *time.Location
}

func NewTracker(source DeviceSource, peaks PeakStore, ranges []string, loc *time.Location) *Tracker {
	return &Tracker{source: source, peaks: peaks, ranges: ranges, loc: loc}
}

// Today returns the current calendar date in the tracker's fixed timezone.
func (t *Tracker) Today() string {
	return time.Now().In(t.loc).Format("2006-01-02")
}

// Poll counts the current occupancy and raises the stored daily maximum when
// exceeded. The stored value never decreases within a day.
func (t *Tracker) Poll(ctx context.Context) (int, error) {
	today := t.Today()

	current, err := Count(ctx, t.source, today, t.ranges)
	if err != nil {
		return 0, err
	}

	stored, _, err := t.peaks.Get(ctx, today)
	if err != nil {
		return 0, err
	}
	log.Printf("occupancy %s: current=%d storedMax=%d", today, current, stored)

	if int64(current) > stored {
		if err := t.peaks.Set(ctx, today, int64(current)); err != nil {
			return 0, err
		}
	}
	return current, nil
}
