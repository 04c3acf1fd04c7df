package domain

// Role represents user role in the system
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
	RoleCoach  Role = "coach"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleGuest, RoleCoach:
		return true
	}
	return false
}

// Actor identifies the authenticated principal performing an operation.
// Attribution fields on attendance and payment records are filled from the
// actor, never from a hardcoded identity.
type Actor struct {
	ID   uint
	Name string
}
