package punch

import (
	"context"
	"time"
)

// PunchRepository defines data access methods for raw punches.
type PunchRepository interface {
	// Insert stores a new punch. Punches within one minute of an existing
	// punch for the same badge are rejected with ErrDuplicatePunch.
	Insert(ctx context.Context, p Punch) (Punch, error)

	// ListUnclassified retrieves punches with no type yet, ordered by
	// badge then timestamp.
	ListUnclassified(ctx context.Context) ([]Punch, error)

	// ListForRange retrieves all punches for one badge between from
	// (inclusive) and to (exclusive), ordered by timestamp.
	ListForRange(ctx context.Context, attendanceID string, from, to time.Time) ([]Punch, error)

	// ListClassifiedForRange is ListForRange restricted to punches that
	// already carry a type.
	ListClassifiedForRange(ctx context.Context, attendanceID string, from, to time.Time) ([]Punch, error)

	// SetType assigns IN or OUT to a punch and clears any review flag.
	SetType(ctx context.Context, id int64, punchType string) error

	// MarkNeedsReview flags a punch for manual review with a short reason.
	MarkNeedsReview(ctx context.Context, id int64, reason string) error

	// CountSameTypeWithin counts punches of the same type for the badge
	// within the window around ts, excluding the punch itself.
	CountSameTypeWithin(ctx context.Context, attendanceID string, punchType string, ts time.Time, window time.Duration, excludeID int64) (int, error)
}
