package auth

const (
	PermEmployeesRead   = "employees.read"
	PermEmployeesWrite  = "employees.write"
	PermLeaveRequest    = "leave.request"
	PermLeaveApprove    = "leave.approve"
	PermPayrollRead     = "payroll.read"
	PermPayslipRead     = "payslip.read"
	PermAttendanceRead  = "attendance.read"
	PermAttendanceCheck = "attendance.check"
	PermReportsRead     = "reports.read"
	PermProfileWrite    = "profile.write"
)

var RolePermissions = map[Role][]string{
	RoleAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermLeaveApprove,
		PermPayrollRead,
		PermAttendanceRead,
		PermReportsRead,
	},
	RoleEmployee: {
		PermAttendanceRead,
		PermAttendanceCheck,
		PermLeaveRequest,
		PermPayslipRead,
		PermProfileWrite,
	},
}

// PermissionsFor returns a copy so callers can't mutate the table.
func PermissionsFor(role Role) []string {
	perms := RolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
