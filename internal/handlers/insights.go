package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Insights returns the AI-generated performance summary for the current
// user. The summary is produced and stored upstream; the portal only
// resolves whose summary to show and passes it through.
func (h HandlerSet) Insights(c *gin.Context) {
	scope := h.scope(c)
	ctx := c.Request.Context()

	userID := scope.Store.UserID(ctx)
	if userID == "" {
		user, err := h.api.Profile(ctx, scope.Token)
		if err != nil {
			h.upstreamError(c, err)
			return
		}
		userID = user.ID
		scope.Store.SetUserID(ctx, userID)
	}

	summary, err := h.api.PerformanceSummary(ctx, scope.Token, userID)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h HandlerSet) FAQ(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"faqs": []gin.H{
			{
				"question": "How do I retake a quiz?",
				"answer":   "Open the topic, choose the quiz set and select Retake. Your best score is kept on the leaderboard.",
			},
			{
				"question": "Why can't I open an instructor page?",
				"answer":   "Pages under the tutor area require the instructor role. You will be returned to your own dashboard.",
			},
			{
				"question": "Are course documents available offline?",
				"answer":   "Documents you have opened once are cached and load without re-downloading on later visits.",
			},
		},
	})
}
