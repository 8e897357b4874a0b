package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/startup-analyzer/analysis"
	"github.com/kbukum/startup-analyzer/errors"
	"github.com/kbukum/startup-analyzer/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// pageData is the view model of index.html.
type pageData struct {
	QueryTypes    []analysis.QueryType
	Selected      analysis.QueryType
	Custom        string
	FileName      string
	HasCredential bool
	ShowWarning   bool
	Error         string
	Report        *analysis.Report
	Version       string
}

func newPageData(state session.State, version string) pageData {
	d := pageData{
		QueryTypes:    analysis.QueryTypes(),
		Selected:      state.Query.Type,
		Custom:        state.Query.Custom,
		FileName:      state.FileName,
		HasCredential: state.HasCredential(),
		ShowWarning:   !state.Ready(),
		Report:        state.Report,
		Version:       version,
	}
	if d.Selected == "" {
		d.Selected = analysis.MarketOverview
	}
	if state.Err != nil {
		d.setError(state.Err)
	}
	return d
}

// setError routes MISSING_INPUT to the standing warning and everything
// else to the error banner.
func (d *pageData) setError(appErr *errors.AppError) {
	switch appErr.Code {
	case errors.ErrCodeMissingInput:
		d.ShowWarning = true
	case errors.ErrCodeInternal:
		d.Error = appErr.Message
	case errors.ErrCodeStageFailed:
		d.Error = appErr.Summary()
		if hint := analysis.FailureHint(appErr); hint != "" {
			d.Error = appErr.Message + " " + hint
		}
	default:
		d.Error = appErr.Summary()
	}
}

// render executes index.html into a buffer so a template error never
// leaves a half-written page.
func (h *Handler) render(c *gin.Context, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		h.log.Error("Render failed", map[string]interface{}{"error": err.Error()})
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
