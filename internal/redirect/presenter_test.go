package redirect_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"trainhub/portal/internal/redirect"
)

func TestPresenter_Redirect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("renders overlay with message and target", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest("GET", "/training/student", nil)

		presenter := redirect.NewPresenter(zerolog.Nop())
		presenter.Redirect(c, "/training", "Redirecting to login page...")

		require.True(t, c.IsAborted())
		require.Equal(t, 200, rec.Code)
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

		body := rec.Body.String()
		require.Contains(t, body, "Redirecting to login page...")
		require.Contains(t, body, "/training")
		require.Contains(t, body, "auth-loading-container")
	})

	t.Run("second call on same response is a no-op", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest("GET", "/training/student", nil)

		presenter := redirect.NewPresenter(zerolog.Nop())
		presenter.Redirect(c, "/training", "Redirecting to login page...")
		size := rec.Body.Len()

		presenter.Redirect(c, "/training/tutor", "Redirecting to instructor dashboard...")

		require.Equal(t, size, rec.Body.Len(), "a later redirect must not stack a second overlay")
		require.NotContains(t, rec.Body.String(), "instructor dashboard")
	})
}
