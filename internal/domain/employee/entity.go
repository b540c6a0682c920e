package employee

import (
	"time"
)

// Employee is the slice of the employee record the timesheet engine reads.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	HireDate         time.Time
	ResignationDate  *time.Time
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// EmployedOn reports whether the employee was on payroll on date.
func (e Employee) EmployedOn(date time.Time) bool {
	d := date.Format("2006-01-02")
	if e.HireDate.Format("2006-01-02") > d {
		return false
	}
	return e.ResignationDate == nil || e.ResignationDate.Format("2006-01-02") >= d
}
