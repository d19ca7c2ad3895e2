package punch

import "errors"

var (
	ErrPunchNotFound    = errors.New("punch not found")
	ErrDuplicatePunch   = errors.New("a punch already exists within one minute of this timestamp")
	ErrUnknownPunchType = errors.New("punch type must be IN or OUT")
)
