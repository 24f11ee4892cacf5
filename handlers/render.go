package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/middleware"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// LoadTemplates installs the embedded page templates on the engine.
func LoadTemplates(r *gin.Engine) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))
	r.SetHTMLTemplate(tmpl)
}

// pageData merges the per-page payload with the session identity and any
// pending flash notice so every template can render them.
func pageData(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	if s := middleware.CurrentSession(c); s != nil {
		data["Session"] = s
	}
	if msg := middleware.TakeFlash(c); msg != "" {
		data["Flash"] = msg
	}
	return data
}

func notFoundPage(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error404.tmpl", pageData(c, nil))
}

func errorPage(c *gin.Context, status int) {
	c.HTML(status, "error500.tmpl", pageData(c, nil))
}

func parseID(raw string) (uint, bool) {
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
