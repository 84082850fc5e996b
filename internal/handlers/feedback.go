package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trainhub/portal/internal/models"
)

func (h HandlerSet) SubmitFeedback(c *gin.Context) {
	scope := h.scope(c)

	var fb models.Feedback
	if err := c.ShouldBindJSON(&fb); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.api.SubmitFeedback(c.Request.Context(), scope.Token, fb); err != nil {
		h.upstreamError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
