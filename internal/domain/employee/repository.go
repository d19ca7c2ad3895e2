package employee

import (
	"context"
)

// EmployeeRepository defines data access methods for employees.
type EmployeeRepository interface {
	// GetByAttendanceID retrieves an employee by badge number
	GetByAttendanceID(ctx context.Context, attendanceID string) (Employee, error)

	// ListActive retrieves all employees currently active on the clock
	ListActive(ctx context.Context) ([]Employee, error)

	// ListActiveAttendanceIDs retrieves the badge numbers of active employees
	ListActiveAttendanceIDs(ctx context.Context) ([]string, error)
}
