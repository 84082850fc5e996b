package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trainhub/portal/internal/session"
)

// cookieJar binds session.CookieJar to a live gin request/response pair.
type cookieJar struct {
	c      *gin.Context
	name   string
	secure bool
}

// NewCookieJar returns the access-token cookie view for the current request.
func NewCookieJar(c *gin.Context, name string, secure bool) session.CookieJar {
	return cookieJar{c: c, name: name, secure: secure}
}

func (j cookieJar) Token() string {
	val, err := j.c.Cookie(j.name)
	if err != nil {
		return ""
	}
	return val
}

func (j cookieJar) ClearToken() {
	j.c.SetSameSite(http.SameSiteLaxMode)
	j.c.SetCookie(j.name, "", -1, "/", "", j.secure, true)
}
