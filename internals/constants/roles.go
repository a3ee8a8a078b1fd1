package constants

import "fmt"

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleAttendee = "attendee"
)

// Template pesan error role
const (
	ErrOnlyStaffCanAccess  = "❌ Chỉ quản trị viên hoặc quản lý mới được truy cập %s."
	ErrOnlyAdminsCanAccess = "❌ Chỉ quản trị viên mới được truy cập %s."
)

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles   = []string{RoleAdmin, RoleManager, RoleAttendee}
	StaffRoles = []string{RoleAdmin, RoleManager}
	AdminOnly  = []string{RoleAdmin}
)
