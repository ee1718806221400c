package occupancy

import (
	"context"
	"fmt"

	"github.com/mtamaki/office-peak/pkg/model"
)

// DeviceSource streams device records from the inventory API, one page at a
// time. The walk terminates when the callback returns an error.
type DeviceSource interface {
	StreamDevices(ctx context.Context, fn func(model.DeviceRecord) error) error
}

// Count returns the number of distinct identities whose device last checked
// in on targetDate from inside one of the office ranges. Devices reporting
// without a usable timestamp or IP are skipped; duplicate check-ins for the
// same identity count once.
func Count(ctx context.Context, src DeviceSource, targetDate string, ranges []string) (int, error) {
	seen := make(map[string]struct{})

	err := src.StreamDevices(ctx, func(d model.DeviceRecord) error {
		if d.ContactDate() != targetDate {
			return nil
		}
		ip := d.IP()
		if ip == "" || !MatchesAny(ip, ranges) {
			return nil
		}
		seen[d.Identity()] = struct{}{}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count occupancy for %s: %w", targetDate, err)
	}
	return len(seen), nil
}
