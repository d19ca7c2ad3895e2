package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/aventuratime/timeclock-backend-go/internal/domain/employee"
	"github.com/aventuratime/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByAttendanceID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByAttendanceID(ctx context.Context, attendanceID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, first_name, last_name, attendance_id, payroll_id, is_active, created_at, updated_at
		FROM employees
		WHERE attendance_id = $1
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, attendanceID).Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.AttendanceID,
		&emp.PayrollID, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, first_name, last_name, attendance_id, payroll_id, is_active, created_at, updated_at
		FROM employees
		WHERE is_active = TRUE
		ORDER BY attendance_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(
			&emp.ID, &emp.FirstName, &emp.LastName, &emp.AttendanceID,
			&emp.PayrollID, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

// ListActiveAttendanceIDs implements employee.EmployeeRepository.
func (r *employeeRepository) ListActiveAttendanceIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT attendance_id FROM employees WHERE is_active = TRUE ORDER BY attendance_id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan attendance id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
