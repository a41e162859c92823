package client

import "encoding/json"

// Role is the normalized role type. Older API responses serialize roles
// either as plain strings or as {"name": "..."} objects; both decode into
// Role here so nothing past the ingestion boundary has to care.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleHOD        Role = "HEAD_OF_DEPARTMENT"
	RoleDoctor     Role = "DOCTOR"
	RoleNurse      Role = "NURSE_STAFF"
	RolePatient    Role = "PATIENT"
)

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Role(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = Role(obj.Name)
	return nil
}

var dashboardPaths = map[Role]string{
	RoleSuperAdmin: "/admin/dashboard",
	RoleHOD:        "/hod/dashboard",
	RoleDoctor:     "/doctor/dashboard",
	RoleNurse:      "/nurse/dashboard",
	RolePatient:    "/patient/dashboard",
}

// DashboardPath maps a role to its dashboard route. Unknown or missing
// roles fall back to the generic dashboard.
func DashboardPath(role Role) string {
	if p, ok := dashboardPaths[role]; ok {
		return p
	}
	return "/dashboard"
}

// User is the authenticated user as cached by the session.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Roles    []Role `json:"roles"`
	ClinicID string `json:"clinicId,omitempty"`
	Active   bool   `json:"active"`
}

// PrimaryRole is the first role; it drives dashboard resolution.
func (u *User) PrimaryRole() Role {
	if u == nil || len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0]
}
