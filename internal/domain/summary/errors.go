package summary

import "errors"

var (
	ErrSummaryNotFound = errors.New("daily summary not found")
	ErrRowLocked       = errors.New("daily summary is locked by a manual correction")
)
