package redirect

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Presenter performs the navigation for a denied request. Instead of the
// protected content the browser receives a full-viewport interstitial with a
// spinner and the reason message, which immediately hard-navigates to the
// target. A hard navigation (not a client-side transition) is deliberate: it
// discards all in-memory client state, which is the desired reset after a
// role violation or logout.
type Presenter struct {
	log zerolog.Logger
}

func NewPresenter(log zerolog.Logger) *Presenter {
	return &Presenter{log: log}
}

// Redirect writes the interstitial page and aborts the handler chain. It is
// idempotent per response: once a redirect has been written, later calls on
// the same request are no-ops, so racing denials cannot stack two pages.
func (p *Presenter) Redirect(c *gin.Context, path, message string) {
	c.Abort()

	if c.Writer.Written() {
		p.log.Debug().
			Str("path", path).
			Msg("redirect skipped, response already written")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	if err := pageTmpl.Execute(c.Writer, pageData{Path: path, Message: message}); err != nil {
		p.log.Error().Err(err).Msg("interstitial render failed")
	}
}

type pageData struct {
	Path    string
	Message string
}

var pageTmpl = template.Must(template.New("interstitial").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="0;url={{.Path}}">
<style>
#auth-loading-container{position:fixed;top:0;left:0;width:100%;height:100%;background-color:#fff;display:flex;flex-direction:column;align-items:center;justify-content:center;z-index:9999}
.spinner{border:4px solid rgba(0,0,0,.1);border-left:4px solid #3b82f6;border-radius:50%;width:50px;height:50px;animation:spin 1s linear infinite}
p{margin-top:16px;font-size:16px;font-weight:500;color:#4b5563}
@keyframes spin{0%{transform:rotate(0deg)}100%{transform:rotate(360deg)}}
</style>
</head>
<body>
<div id="auth-loading-container">
<div class="spinner"></div>
<p>{{.Message}}</p>
</div>
<script>window.location.replace({{.Path}});</script>
</body>
</html>
`))
