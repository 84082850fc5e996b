package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trainhub/portal/internal/authguard"
	"trainhub/portal/internal/middleware"
	"trainhub/portal/internal/models"
	"trainhub/portal/internal/security"
)

// LoginPage is the unauthenticated entry point. An already-authenticated
// user is sent straight to their dashboard instead of seeing the login view
// again.
func (h HandlerSet) LoginPage(c *gin.Context) {
	scope := h.scope(c)
	if scope.Store.HasToken() {
		if role, ok := scope.Store.StoredRole(); ok {
			message := fmt.Sprintf("Redirecting to %s dashboard...", role.Label())
			h.presenter.Redirect(c, authguard.RoleHomePath(role), message)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"page": "login"})
}

type otpRequest struct {
	Username string `json:"userName" binding:"required"`
}

func (h HandlerSet) RequestOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.api.RequestOTP(c.Request.Context(), req.Username); err != nil {
		h.upstreamError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type loginRequest struct {
	Username string `json:"userName" binding:"required"`
	OTP      string `json:"otp" binding:"required"`
}

type loginResponse struct {
	User       models.User `json:"user"`
	RedirectTo string      `json:"redirectTo"`
}

// Login exchanges the OTP for an upstream token, sets the access_token
// cookie and persists the session flags, so a reload hydrates to the same
// authenticated state.
func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.api.Login(c.Request.Context(), req.Username, req.OTP)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	role, ok := models.ParseRole(string(result.User.Role))
	if !ok {
		h.log.Error().Str("role", string(result.User.Role)).Msg("upstream returned unknown role")
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream_error"})
		return
	}

	maxAge := h.cfg.Session.CookieMaxAge
	if expiry, ok := security.TokenExpiry(result.Token); ok {
		if until := time.Until(expiry); until > 0 && until < maxAge {
			maxAge = until
		}
	}

	secure := h.cfg.Environment == "production"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, result.Token, int(maxAge.Seconds()), "/", "", secure, true)

	jar := middleware.NewCookieJar(c, h.cfg.Session.CookieName, secure)
	scope := h.sessions.Scope(c.Request.Context(), result.Token, jar)
	scope.Store.Login(c.Request.Context(), role, result.User.Name, result.User.Username)
	scope.Store.SetUserID(c.Request.Context(), result.User.ID)

	c.JSON(http.StatusOK, loginResponse{
		User:       result.User,
		RedirectTo: authguard.RoleHomePath(role),
	})
}

// Logout is the global kill switch. Whatever state the session is in, it
// ends with the flags wiped, the cookie cleared, the response cache purged
// and a hard navigation to the login entry. Nothing here can fail in a way
// that leaves the user stuck looking authenticated.
func (h HandlerSet) Logout(c *gin.Context) {
	scope := h.scope(c)
	scope.Store.Logout(c.Request.Context())

	h.presenter.Redirect(c, authguard.LoginPath, "Logging out...")
}

func (h HandlerSet) Profile(c *gin.Context) {
	scope := h.scope(c)

	user, err := h.api.Profile(c.Request.Context(), scope.Token)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
