package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/mtamaki/office-peak/pkg/model"
)

// historyTTL keeps roughly thirteen months of daily values, enough for
// month-over-month comparison without unbounded growth.
const historyTTL = 400 * 24 * time.Hour

// HistoryRepository stores finalized daily peaks for monthly reporting,
// one document per calendar date with a month field for per-month queries.
type HistoryRepository struct {
	client *firestore.Client
}

func NewHistoryRepository(client *firestore.Client) *HistoryRepository {
	return &HistoryRepository{client: client}
}

// Put records the finalized peak for a date. Writes are idempotent: reporting
// the same date twice overwrites rather than accumulates.
func (r *HistoryRepository) Put(ctx context.Context, date string, count int64) error {
	if len(date) < 7 {
		return fmt.Errorf("invalid history date %q", date)
	}
	entry := model.HistoryEntry{
		Date:     date,
		Month:    date[:7],
		Count:    float64(count),
		ExpireAt: time.Now().UTC().Add(historyTTL),
	}
	if _, err := r.client.Collection("monthly_history").Doc(date).Set(ctx, entry); err != nil {
		return fmt.Errorf("put history entry %s: %w", date, err)
	}
	return nil
}

// ListMonth loads all recorded daily values for a YYYY-MM month. Order is
// unspecified; callers sort as needed.
func (r *HistoryRepository) ListMonth(ctx context.Context, month string) ([]model.DailyValue, error) {
	iter := r.client.Collection("monthly_history").Where("month", "==", month).Documents(ctx)
	defer iter.Stop()

	var values []model.DailyValue
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate history for %s: %w", month, err)
		}
		var entry model.HistoryEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("decode history entry %s: %w", doc.Ref.ID, err)
		}
		if entry.Date == "" {
			entry.Date = doc.Ref.ID
		}
		values = append(values, model.DailyValue{Date: entry.Date, Count: entry.Count})
	}
	return values, nil
}
