package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Role names carried in JWT claims and user documents. The first role on a
// user is the primary one and drives dashboard routing.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleHOD        = "HEAD_OF_DEPARTMENT"
	RoleDoctor     = "DOCTOR"
	RoleNurse      = "NURSE_STAFF"
	RolePatient    = "PATIENT"
)

type User struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName string              `bson:"fullName" json:"fullName"`
	Email    string              `bson:"email" json:"email"`
	Password string              `bson:"password" json:"-"` // Hide from JSON responses
	Phone    string              `bson:"phone" json:"phone"`
	Roles    []string            `bson:"roles" json:"roles"`
	ClinicID *primitive.ObjectID `bson:"clinicId,omitempty" json:"clinicId,omitempty"` // Doctor/HOD affiliation
	Active   bool                `bson:"active" json:"active"`
}

// PrimaryRole is the role that decides which dashboard a user lands on.
func (u *User) PrimaryRole() string {
	if len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0]
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
