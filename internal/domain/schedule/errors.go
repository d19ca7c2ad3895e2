package schedule

import "errors"

var (
	ErrShiftNotFound      = errors.New("work shift not found")
	ErrNoActiveAssignment = errors.New("no active shift assignment for this employee")
)
