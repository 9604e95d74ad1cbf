package domain

// EmployeeProfile is the directory profile a caller resolves to. When no
// directory match exists, the identity service substitutes a fallback
// profile with the configured fallback department.
type EmployeeProfile struct {
	EmployeeID     *int64 `json:"employee_id"`
	Name           string `json:"name"`
	Login          string `json:"login"`
	DepartmentCD   string `json:"department_cd"`
	DepartmentName string `json:"department_name"`
	IsApprovalDept bool   `json:"is_approval_dept"`
}

// Department is one active organizational department.
type Department struct {
	Code           string `json:"department_cd"`
	Name           string `json:"department_name"`
	IsApprovalDept bool   `json:"is_approval_dept"`
}

// Employee is one active member of a department, as returned by the
// directory lookup used to populate assignee pickers.
type Employee struct {
	ID           int64  `json:"employee_id"`
	Name         string `json:"name"`
	Login        string `json:"login"`
	DepartmentCD string `json:"department_cd"`
}
