package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"trainhub/portal/internal/authguard"
	"trainhub/portal/internal/config"
	"trainhub/portal/internal/middleware"
	"trainhub/portal/internal/models"
	"trainhub/portal/internal/pdfcache"
	"trainhub/portal/internal/redirect"
	"trainhub/portal/internal/session"
	"trainhub/portal/internal/upstream"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	api       *upstream.Client
	sessions  *session.Manager
	presenter *redirect.Presenter
	documents *pdfcache.Cache
	respCache *upstream.ResponseCache
	rdb       *redis.Client
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	api *upstream.Client,
	sessions *session.Manager,
	presenter *redirect.Presenter,
	documents *pdfcache.Cache,
	respCache *upstream.ResponseCache,
	rdb *redis.Client,
) HandlerSet {
	return HandlerSet{
		log:       log,
		cfg:       cfg,
		api:       api,
		sessions:  sessions,
		presenter: presenter,
		documents: documents,
		respCache: respCache,
		rdb:       rdb,
	}
}

func (h HandlerSet) Register(engine *gin.Engine) {
	engine.GET("/api/healthz", h.Health)

	t := engine.Group(authguard.RoutePrefix)
	t.GET("", h.LoginPage)
	t.POST("/otp", h.RequestOTP)
	t.POST("/login", h.Login)

	// The logout kill switch stays outside every guard so it is reachable
	// from any UI state, broken ones included.
	t.Any("/logout", h.Logout)

	authed := t.Group("", h.guard())
	authed.GET("/leader-board", h.Leaderboard)
	authed.GET("/user-profile", h.Profile)
	authed.GET("/insights", h.Insights)
	authed.GET("/faq", h.FAQ)

	student := t.Group("/student", h.guard(models.RoleStudent))
	student.GET("", h.StudentHome)
	student.GET("/all-courses", h.AllCourses)
	student.GET("/courses/:courseId/pdf", h.CourseDocument)
	student.GET("/courses/:courseId/quiz", h.Quiz)
	student.POST("/courses/:courseId/quiz", h.SubmitQuiz)
	student.GET("/courses/:courseId/quiz/review", h.QuizReview)
	student.POST("/feedback", h.SubmitFeedback)

	// Course-topic browsing is reachable from both roles' navigation even
	// though it lives under the student namespace.
	shared := t.Group("/student/all-courses/:courseId/topics", h.guard(models.RoleStudent, models.RoleInstructor))
	shared.GET("", h.CourseTopics)
	shared.GET("/:quizSetId", h.TopicQuizSet)

	tutor := t.Group("/tutor", h.guard(models.RoleInstructor))
	tutor.GET("", h.TutorHome)
	tutor.GET("/quiz", h.QuizComposer)
	tutor.POST("/quiz", h.CreateQuizSet)
}

func (h HandlerSet) guard(roles ...models.Role) gin.HandlerFunc {
	return middleware.Guard(h.cfg, h.sessions, h.presenter, roles...)
}

func (h HandlerSet) scope(c *gin.Context) *session.Scope {
	return middleware.SessionScope(h.cfg, h.sessions, c)
}

// upstreamError maps an upstream failure onto the portal's error policy:
// auth failures become a login redirect, everything else surfaces as a
// retryable gateway error.
func (h HandlerSet) upstreamError(c *gin.Context, err error) {
	var ue *upstream.Error
	if errors.As(err, &ue) {
		h.log.Warn().Int("status", ue.Status).Str("path", c.Request.URL.Path).Msg("upstream error")
		if ue.Status == http.StatusUnauthorized || ue.Status == http.StatusForbidden {
			h.presenter.Redirect(c, authguard.LoginPath, "Redirecting to login page...")
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream_error", "retryable": true})
		return
	}

	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("upstream unreachable")
	c.JSON(http.StatusBadGateway, gin.H{"error": "upstream_unreachable", "retryable": true})
}

// cachedJSON serves the response from the session's response cache when
// possible, otherwise fetches, caches and serves.
func (h HandlerSet) cachedJSON(c *gin.Context, scope *session.Scope, fetch func(ctx context.Context) (any, error)) {
	ctx := c.Request.Context()
	path := c.Request.URL.Path

	if h.respCache != nil {
		if payload, ok := h.respCache.Get(ctx, scope.Namespace, path); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			return
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	payload, err := json.Marshal(v)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode_failed"})
		return
	}

	if h.respCache != nil {
		h.respCache.Set(ctx, scope.Namespace, path, payload)
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
