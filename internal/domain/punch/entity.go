package punch

import (
	"time"
)

// Punch type values once classified.
const (
	TypeIn  = "IN"
	TypeOut = "OUT"
)

// Punch source values.
const (
	SourceTerminal = "terminal"
	SourceImport   = "import"
	SourceManual   = "manual"
)

// Punch is a raw clock event captured from a terminal, an import file or a
// manual entry. Type is nil until the classifier has assigned IN or OUT.
type Punch struct {
	ID           int64
	AttendanceID string
	Timestamp    time.Time
	Type         *string
	NeedsReview  bool
	ReviewReason *string
	Source       string
	CreatedAt    time.Time
}

// IsIn reports whether the punch has been classified as a clock-in.
func (p Punch) IsIn() bool {
	return p.Type != nil && *p.Type == TypeIn
}

// IsOut reports whether the punch has been classified as a clock-out.
func (p Punch) IsOut() bool {
	return p.Type != nil && *p.Type == TypeOut
}

// MinuteOfDay returns the punch time as minutes since local midnight.
func (p Punch) MinuteOfDay() int {
	return p.Timestamp.Hour()*60 + p.Timestamp.Minute()
}
