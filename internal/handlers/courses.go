package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) StudentHome(c *gin.Context) {
	scope := h.scope(c)

	c.JSON(http.StatusOK, gin.H{
		"page": "student-home",
		"name": scope.Store.DisplayName(),
	})
}

func (h HandlerSet) AllCourses(c *gin.Context) {
	scope := h.scope(c)
	h.cachedJSON(c, scope, func(ctx context.Context) (any, error) {
		return h.api.Courses(ctx, scope.Token)
	})
}

func (h HandlerSet) CourseTopics(c *gin.Context) {
	scope := h.scope(c)
	courseID := c.Param("courseId")
	h.cachedJSON(c, scope, func(ctx context.Context) (any, error) {
		return h.api.CourseTopics(ctx, scope.Token, courseID)
	})
}

func (h HandlerSet) TopicQuizSet(c *gin.Context) {
	scope := h.scope(c)

	quizSet, err := h.api.QuizSet(c.Request.Context(), scope.Token, c.Param("quizSetId"))
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizSet)
}

// CourseDocument serves the course PDF through the local blob cache: first
// visit downloads and populates, later visits skip the network. A download
// failure is the one error surfaced to the view, since only the view can
// offer a retry.
func (h HandlerSet) CourseDocument(c *gin.Context) {
	scope := h.scope(c)
	courseID := c.Param("courseId")

	scope.Store.RememberCourse(c.Request.Context(), courseID)

	data, err := h.documents.GetOrFetch(c.Request.Context(), courseID, func(ctx context.Context) ([]byte, error) {
		return h.api.DownloadCourseDocument(ctx, scope.Token, courseID)
	})
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, "application/pdf", data)
}
