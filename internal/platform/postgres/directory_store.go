package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/platform/logger"
	"github.com/phrazzld/routine-api/internal/store"
)

// PostgresDirectoryStore implements the store.DirectoryStore interface on
// top of the employee and department reference tables. The directory is
// read-only from this application's point of view.
type PostgresDirectoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDirectoryStore creates a new PostgreSQL implementation of the
// DirectoryStore interface. If logger is nil, a default logger will be used.
func NewPostgresDirectoryStore(db store.DBTX, logger *slog.Logger) *PostgresDirectoryStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDirectoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "directory_store")),
	}
}

// Ensure PostgresDirectoryStore implements store.DirectoryStore interface
var _ store.DirectoryStore = (*PostgresDirectoryStore)(nil)

// GetEmployeeByLogin implements store.DirectoryStore.GetEmployeeByLogin
func (s *PostgresDirectoryStore) GetEmployeeByLogin(ctx context.Context, login string) (*domain.EmployeeProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT e.employee_id, e.name, e.login_id, e.department_cd,
		       d.department_name, d.is_approval_dept
		FROM employee e
		JOIN department d ON d.department_cd = e.department_cd
		WHERE LOWER(e.login_id) = LOWER($1)
		  AND e.retirement_date IS NULL
		  AND e.last_work_date IS NULL
		  AND d.delete_dt IS NULL
	`

	var profile domain.EmployeeProfile
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(login)).Scan(
		&profile.EmployeeID,
		&profile.Name,
		&profile.Login,
		&profile.DepartmentCD,
		&profile.DepartmentName,
		&profile.IsApprovalDept,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("employee not found", slog.String("login", login))
			return nil, store.ErrEmployeeNotFound
		}
		log.Error("failed to get employee by login",
			slog.String("error", err.Error()),
			slog.String("login", login))
		return nil, MapError(err)
	}
	return &profile, nil
}

// ListDepartments implements store.DirectoryStore.ListDepartments
func (s *PostgresDirectoryStore) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT department_cd, department_name, is_approval_dept
		FROM department
		WHERE delete_dt IS NULL
		ORDER BY department_cd
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list departments", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(ctx, rows)

	var departments []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.Code, &dept.Name, &dept.IsApprovalDept); err != nil {
			log.Error("failed to scan department row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		departments = append(departments, dept)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating department rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return departments, nil
}

// ListDepartmentMembers implements store.DirectoryStore.ListDepartmentMembers
func (s *PostgresDirectoryStore) ListDepartmentMembers(
	ctx context.Context,
	departmentCD string,
	employeesOnly bool,
) ([]domain.Employee, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT employee_id, name, login_id, department_cd
		FROM employee
		WHERE department_cd = $1
		  AND retirement_date IS NULL
		  AND last_work_date IS NULL
	`
	if employeesOnly {
		query += ` AND employee_type = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, departmentCD)
	if err != nil {
		log.Error("failed to list department members",
			slog.String("error", err.Error()),
			slog.String("department_cd", departmentCD))
		return nil, MapError(err)
	}
	defer closeRows(ctx, rows)

	var members []domain.Employee
	for rows.Next() {
		var emp domain.Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Login, &emp.DepartmentCD); err != nil {
			log.Error("failed to scan employee row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		members = append(members, emp)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating employee rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return members, nil
}
