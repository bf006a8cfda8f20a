package users

// RoleType represents a role name as seeded on the backend
type RoleType string

const (
	RoleAdmin               RoleType = "admin"
	RoleAlumno              RoleType = "alumno"
	RoleDocente             RoleType = "docente"
	RoleSecretaria          RoleType = "secretaria"
	RoleSecretariaAcademica RoleType = "secretaria-academica"
)

// adminRoleID is the role id the backend seeds for the admin role
const adminRoleID = 1

// User is the identity snapshot served by GET /users/{id}. It is replaced
// wholesale on every refetch and never mutated in place.
type User struct {
	ID       int      `json:"id"`                  // Unique identifier for the user
	Username string   `json:"username"`            // Unique username
	Email    string   `json:"email"`               // User's email address
	RoleID   int      `json:"role_id,omitempty"`   // Foreign key to the backend role table
	RoleName RoleType `json:"role_name,omitempty"` // Resolved role name, when the backend includes it
}

// Role returns the user's role name. When the backend response carries only
// the role id, the admin id is still recognised so the guard's superuser
// bypass keeps working.
func (u *User) Role() RoleType {
	if u == nil {
		return ""
	}
	if u.RoleName != "" {
		return u.RoleName
	}
	if u.RoleID == adminRoleID {
		return RoleAdmin
	}
	return ""
}

// IsAdmin returns true if the user holds the superuser role
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	return u.Role() == RoleAdmin || u.RoleID == adminRoleID
}
