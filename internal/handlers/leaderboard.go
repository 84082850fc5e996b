package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) Leaderboard(c *gin.Context) {
	scope := h.scope(c)
	h.cachedJSON(c, scope, func(ctx context.Context) (any, error) {
		return h.api.Leaderboard(ctx, scope.Token)
	})
}
