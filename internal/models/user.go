package models

// Role gates which portal routes a user may reach. The wire values come from
// the upstream LMS API and are stored verbatim in the session flag store.
type Role string

const (
	RoleStudent    Role = "ROLE_Student"
	RoleInstructor Role = "ROLE_Instructor"
)

// ParseRole validates a role string read from storage or the upstream API.
// Anything outside the known set is reported as invalid, never passed along
// as a loose string.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleInstructor:
		return Role(s), true
	default:
		return "", false
	}
}

// Label returns the lowercase display form used in redirect messages.
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleInstructor:
		return "instructor"
	default:
		return "user"
	}
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"userName"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}
