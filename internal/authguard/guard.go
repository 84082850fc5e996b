package authguard

import (
	"fmt"
	"regexp"

	"trainhub/portal/internal/models"
)

const (
	// RoutePrefix is the application's own route namespace. The guard and
	// the path memory refuse to deal in anything outside it.
	RoutePrefix = "/training"

	// LoginPath is the unauthenticated entry point. It is always reachable
	// without a token.
	LoginPath = "/training"

	StudentHomePath    = "/training/student"
	InstructorHomePath = "/training/tutor"
)

// sharedRoutes lists the paths under the student namespace that both roles
// must be able to reach. Matching is by this explicit table only, never by
// prefix guessing.
var sharedRoutes = []*regexp.Regexp{
	regexp.MustCompile(`^/training/student/all-courses/[\w-]+/topics(/?|/.*)$`),
}

// IsSharedRoute reports whether pathname is reachable by both roles despite
// sitting under the student namespace.
func IsSharedRoute(pathname string) bool {
	for _, re := range sharedRoutes {
		if re.MatchString(pathname) {
			return true
		}
	}
	return false
}

// RoleHomePath maps a role to its dashboard. Unknown roles fall back to the
// login entry.
func RoleHomePath(role models.Role) string {
	switch role {
	case models.RoleInstructor:
		return InstructorHomePath
	case models.RoleStudent:
		return StudentHomePath
	default:
		return LoginPath
	}
}

type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonNoRole          Reason = "no-role"
	ReasonRoleMismatch    Reason = "role-mismatch"
)

// Decision is the outcome of evaluating a navigation attempt.
type Decision struct {
	Allow   bool
	Target  string
	Reason  Reason
	Message string
}

func allow() Decision {
	return Decision{Allow: true}
}

// Session is the guard's read-only view of the hydrated session state.
type Session interface {
	HasToken() bool
	StoredRole() (models.Role, bool)
}

// Guard decides, before a protected view is served, whether the navigation
// is permitted and where to send the user otherwise. Evaluate never mutates
// session state; its only side effect is on the path memory.
type Guard struct {
	session Session
	memory  *PathMemory
}

func New(session Session, memory *PathMemory) *Guard {
	return &Guard{
		session: session,
		memory:  memory,
	}
}

// Evaluate applies the access rules to targetPath. An empty requiredRoles
// means any authenticated user may enter.
func (g *Guard) Evaluate(targetPath string, requiredRoles []models.Role) Decision {
	if !g.session.HasToken() {
		if targetPath == LoginPath {
			return allow()
		}
		return Decision{
			Target:  LoginPath,
			Reason:  ReasonUnauthenticated,
			Message: "Redirecting to login page...",
		}
	}

	if len(requiredRoles) == 0 {
		g.memory.Record(targetPath)
		return allow()
	}

	role, ok := g.session.StoredRole()
	if !ok {
		return g.redirect(LoginPath, ReasonNoRole, "Redirecting to login page...")
	}

	if role == models.RoleInstructor &&
		containsRole(requiredRoles, models.RoleInstructor) &&
		containsRole(requiredRoles, models.RoleStudent) &&
		IsSharedRoute(targetPath) {
		g.memory.Record(targetPath)
		return allow()
	}

	if containsRole(requiredRoles, role) {
		g.memory.Record(targetPath)
		return allow()
	}

	message := fmt.Sprintf("Redirecting to %s dashboard...", role.Label())
	return g.redirect(RoleHomePath(role), ReasonRoleMismatch, message)
}

// redirect resolves the target for a denial that is not the unauthenticated
// case: a remembered previously-authorized path wins over the fallback and
// is consumed in the process.
func (g *Guard) redirect(fallback string, reason Reason, message string) Decision {
	target := fallback
	if previous, ok := g.memory.Consume(); ok {
		target = previous
	}
	return Decision{
		Target:  target,
		Reason:  reason,
		Message: message,
	}
}

func containsRole(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
