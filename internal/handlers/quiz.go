package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trainhub/portal/internal/models"
)

func (h HandlerSet) Quiz(c *gin.Context) {
	scope := h.scope(c)

	quizSetID := c.Query("set")
	if quizSetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "set_required"})
		return
	}

	quizSet, err := h.api.QuizSet(c.Request.Context(), scope.Token, quizSetID)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizSet)
}

func (h HandlerSet) SubmitQuiz(c *gin.Context) {
	scope := h.scope(c)

	var sub models.QuizSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if sub.QuizSetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quizSetId_required"})
		return
	}

	result, err := h.api.SubmitQuiz(c.Request.Context(), scope.Token, sub)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h HandlerSet) QuizReview(c *gin.Context) {
	scope := h.scope(c)

	quizSetID := c.Query("set")
	if quizSetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "set_required"})
		return
	}

	review, err := h.api.QuizReview(c.Request.Context(), scope.Token, quizSetID)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h HandlerSet) TutorHome(c *gin.Context) {
	scope := h.scope(c)

	c.JSON(http.StatusOK, gin.H{
		"page": "tutor-home",
		"name": scope.Store.DisplayName(),
	})
}

// QuizComposer returns the data the composition view needs: the courses the
// instructor can attach a quiz set to.
func (h HandlerSet) QuizComposer(c *gin.Context) {
	scope := h.scope(c)

	courses, err := h.api.Courses(c.Request.Context(), scope.Token)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h HandlerSet) CreateQuizSet(c *gin.Context) {
	scope := h.scope(c)

	var draft models.QuizSetDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.api.CreateQuizSet(c.Request.Context(), scope.Token, draft)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}
