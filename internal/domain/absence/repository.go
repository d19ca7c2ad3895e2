package absence

import (
	"context"
	"time"
)

// AbsenceRepository defines read access to holidays and layoffs. Both are
// managed elsewhere; the derivation pipeline only consumes them.
type AbsenceRepository interface {
	// GetHoliday retrieves the holiday on the given date, or (nil, nil)
	// when the date is not a holiday.
	GetHoliday(ctx context.Context, date time.Time) (*Holiday, error)

	// GetActiveLayoff retrieves the layoff covering the given date for the
	// badge, ignoring purged rows. Returns (nil, nil) when none applies.
	GetActiveLayoff(ctx context.Context, attendanceID string, date time.Time) (*Layoff, error)
}
