package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mtamaki/office-peak/pkg/model"
)

// peakTTL bounds how long an unread daily peak survives. A Firestore TTL
// policy on the expireAt field enforces it.
const peakTTL = 48 * time.Hour

// PeakRepository stores the running daily-maximum occupancy, one document
// per calendar date.
type PeakRepository struct {
	client *firestore.Client
}

func NewPeakRepository(client *firestore.Client) *PeakRepository {
	return &PeakRepository{client: client}
}

// Get returns the stored peak for a date. The second return value reports
// whether an entry exists; an absent entry is not an error.
func (r *PeakRepository) Get(ctx context.Context, date string) (int64, bool, error) {
	snap, err := r.client.Collection("daily_peaks").Doc(date).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get daily peak %s: %w", date, err)
	}
	var peak model.DailyPeak
	if err := snap.DataTo(&peak); err != nil {
		return 0, false, fmt.Errorf("decode daily peak %s: %w", date, err)
	}
	return peak.Count, true, nil
}

// Set overwrites the stored peak for a date with a bounded expiry.
func (r *PeakRepository) Set(ctx context.Context, date string, count int64) error {
	peak := model.DailyPeak{
		Date:     date,
		Count:    count,
		ExpireAt: time.Now().UTC().Add(peakTTL),
	}
	if _, err := r.client.Collection("daily_peaks").Doc(date).Set(ctx, peak); err != nil {
		return fmt.Errorf("set daily peak %s: %w", date, err)
	}
	return nil
}

// Delete removes the stored peak for a date. Deleting an absent entry is a no-op.
func (r *PeakRepository) Delete(ctx context.Context, date string) error {
	if _, err := r.client.Collection("daily_peaks").Doc(date).Delete(ctx); err != nil {
		return fmt.Errorf("delete daily peak %s: %w", date, err)
	}
	return nil
}
