package middleware

import (
	"github.com/gin-gonic/gin"

	"trainhub/portal/internal/config"
	"trainhub/portal/internal/models"
	"trainhub/portal/internal/redirect"
	"trainhub/portal/internal/session"
)

const scopeContextKey = "session_scope"

// SessionScope returns the request's hydrated session scope, building it on
// first use. Hydration therefore always precedes guard evaluation within a
// request.
func SessionScope(cfg *config.AppConfig, sessions *session.Manager, c *gin.Context) *session.Scope {
	if v, ok := c.Get(scopeContextKey); ok {
		if scope, ok := v.(*session.Scope); ok {
			return scope
		}
	}

	jar := NewCookieJar(c, cfg.Session.CookieName, cfg.Environment == "production")
	scope := sessions.Scope(c.Request.Context(), jar.Token(), jar)
	c.Set(scopeContextKey, scope)
	return scope
}

// Guard is the pre-navigation hook for protected route groups: it evaluates
// the navigation against the session and either lets the request through or
// hands it to the redirect presenter. An empty role list admits any
// authenticated user.
func Guard(cfg *config.AppConfig, sessions *session.Manager, presenter *redirect.Presenter, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := SessionScope(cfg, sessions, c)

		decision := scope.Guard.Evaluate(c.Request.URL.Path, roles)
		if !decision.Allow {
			presenter.Redirect(c, decision.Target, decision.Message)
			return
		}

		c.Next()
	}
}
