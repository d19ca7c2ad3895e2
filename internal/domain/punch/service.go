package punch

import (
	"context"
	"io"
)

// IntakeService defines how raw punches enter the system: terminal
// pulls, spreadsheet imports and one-off manual entries.
type IntakeService interface {
	// ImportPunches reads an attendance spreadsheet and inserts its
	// punches. Rows that fail keep the import going.
	ImportPunches(ctx context.Context, r io.Reader) (ImportResult, error)

	// AddManualPunch inserts a single punch entered by HR.
	AddManualPunch(ctx context.Context, req ManualPunchRequest) (Punch, error)

	// DownloadFromTerminals pulls new punches from the physical clocks.
	DownloadFromTerminals(ctx context.Context) error
}

// ImportResult summarizes one spreadsheet import.
type ImportResult struct {
	Inserted   int      `json:"inserted"`
	Duplicates int      `json:"duplicates"`
	Errors     []string `json:"errors,omitempty"`
}

// ManualPunchRequest carries an HR-entered punch. Type may be empty, in
// which case the classifier decides later.
type ManualPunchRequest struct {
	AttendanceID string `json:"attendance_id"`
	Timestamp    string `json:"timestamp"`
	Type         string `json:"type"`
}
