package store

import (
	"context"

	"github.com/phrazzld/routine-api/internal/domain"
)

// DirectoryStore reads the employee and department directory. The directory
// is reference data maintained outside this application; only lookups are
// exposed.
type DirectoryStore interface {
	// GetEmployeeByLogin resolves a directory login (the local part of a
	// UPN, matched case-insensitively) to an employee profile.
	// Returns ErrEmployeeNotFound when no row matches.
	GetEmployeeByLogin(ctx context.Context, login string) (*domain.EmployeeProfile, error)

	// ListDepartments returns all active departments ordered by code.
	ListDepartments(ctx context.Context) ([]domain.Department, error)

	// ListDepartmentMembers returns the active members of a department
	// ordered by name. With employeesOnly set, contractors and other
	// non-employee types are excluded.
	ListDepartmentMembers(ctx context.Context, departmentCD string, employeesOnly bool) ([]domain.Employee, error)
}
