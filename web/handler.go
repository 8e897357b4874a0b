package web

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/startup-analyzer/analysis"
	"github.com/kbukum/startup-analyzer/errors"
	"github.com/kbukum/startup-analyzer/logger"
	"github.com/kbukum/startup-analyzer/security"
	"github.com/kbukum/startup-analyzer/server"
	"github.com/kbukum/startup-analyzer/server/middleware"
	"github.com/kbukum/startup-analyzer/session"
	"github.com/kbukum/startup-analyzer/util"
)

// Form field names.
const (
	FieldAPIKey      = "api_key"
	FieldDataset     = "dataset"
	FieldQueryType   = "query_type"
	FieldCustomQuery = "custom_query"
)

// Multipart parts beyond this size spill to temporary files.
const multipartMemory = 32 << 20

// Analyzer runs one analysis.
type Analyzer interface {
	Analyze(ctx context.Context, in analysis.Input) (*analysis.Report, error)
}

// Handler serves the form page and its actions.
type Handler struct {
	analyzer Analyzer
	sessions *session.Store
	tmpl     *template.Template
	log      *logger.Logger
	version  string
}

// NewHandler parses the embedded templates and returns a Handler.
func NewHandler(a Analyzer, sessions *session.Store, log *logger.Logger, version string) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Handler{
		analyzer: a,
		sessions: sessions,
		tmpl:     tmpl,
		log:      log.WithComponent("web"),
		version:  version,
	}, nil
}

// Register mounts the page routes. A zero rate limit leaves /analyze unthrottled.
func (h *Handler) Register(r gin.IRouter, limit middleware.RateLimitConfig) {
	r.GET("/", h.Index)
	if limit.Enabled() {
		r.POST("/analyze", middleware.GinWrap(middleware.RateLimit(limit)), h.Analyze)
	} else {
		r.POST("/analyze", h.Analyze)
	}
	r.POST("/reset", h.Reset)
	r.GET("/api/report", h.Report)
}

// Index renders the form with the session's current state.
func (h *Handler) Index(c *gin.Context) {
	id := h.sessionID(c)
	state, _ := h.sessions.Get(id)
	h.render(c, http.StatusOK, newPageData(state, h.version))
}

// Analyze stores the submitted inputs, runs the analysis and redirects to
// the page. Fields left empty fall back to what the session already holds,
// so a user can rerun with a different query without re-uploading.
func (h *Handler) Analyze(c *gin.Context) {
	id := h.sessionID(c)

	unlock, err := h.sessions.Lock(id)
	if err != nil {
		h.fail(c, id, err)
		return
	}
	defer unlock()

	state, _ := h.sessions.Get(id)
	state.ID = id
	state.ClearResult()

	// A form that cannot be read still replaces the previous result.
	stored := state
	if appErr := h.readForm(c, &state); appErr != nil {
		stored.Err = appErr
		if err := h.sessions.Save(stored); err != nil {
			h.fail(c, id, err)
			return
		}
		h.fail(c, id, appErr)
		return
	}

	var upload io.Reader
	if state.HasUpload() {
		upload = bytes.NewReader(state.Upload)
	}

	ctx := logger.ContextWithSessionID(c.Request.Context(), id)
	log := h.log.WithContext(ctx)
	log.Info("Analysis requested", map[string]interface{}{
		"query_type": string(state.Query.Type),
		"file":       state.FileName,
	})

	report, err := h.analyzer.Analyze(ctx, analysis.Input{
		Upload:     upload,
		Credential: state.Credential,
		Query:      state.Query,
	})
	if err != nil {
		state.Err = toAppError(err)
		log.Warn("Analysis failed", map[string]interface{}{
			"code":            string(state.Err.Code),
			logger.FieldError: state.Err.Error(),
		})
	} else {
		state.Report = report
	}

	if err := h.sessions.Save(state); err != nil {
		h.fail(c, id, err)
		return
	}
	if wantsJSON(c) {
		h.respondJSON(c, state)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// readForm copies the multipart fields into state. Nothing is overwritten
// when a field is absent.
func (h *Handler) readForm(c *gin.Context, state *session.State) *errors.AppError {
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !stderrors.Is(err, http.ErrNotMultipart) {
		return formError(err)
	}

	if key := c.PostForm(FieldAPIKey); strings.TrimSpace(key) != "" {
		state.Credential = security.NewCredential(key)
	}

	file, header, err := c.Request.FormFile(FieldDataset)
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return formError(err)
		}
		if len(data) > 0 {
			state.Upload = data
			state.FileName = util.SanitizeFileName(header.Filename)
		}
	case stderrors.Is(err, http.ErrMissingFile), stderrors.Is(err, http.ErrNotMultipart):
	default:
		return formError(err)
	}

	state.Query = analysis.NewQuery(c.PostForm(FieldQueryType), c.PostForm(FieldCustomQuery))
	return nil
}

// Reset clears the session and returns to the empty form. A session with
// an analysis in flight answers CONFLICT; the running analysis would save
// its result over the reset.
func (h *Handler) Reset(c *gin.Context) {
	id := h.sessionID(c)
	unlock, err := h.sessions.Lock(id)
	if err != nil {
		h.fail(c, id, err)
		return
	}
	defer unlock()

	h.sessions.Reset(id)
	c.Redirect(http.StatusSeeOther, "/")
}

// Report returns the session's last report, or the error that replaced it.
func (h *Handler) Report(c *gin.Context) {
	id, ok := h.existingSessionID(c)
	if !ok {
		server.RespondWithError(c, errors.NotFound("report"))
		return
	}
	state, _ := h.sessions.Get(id)
	h.respondJSON(c, state)
}

func (h *Handler) respondJSON(c *gin.Context, state session.State) {
	switch {
	case state.Report != nil:
		server.RespondOK(c, state.Report)
	case state.Err != nil:
		server.RespondWithError(c, state.Err)
	default:
		server.RespondWithError(c, errors.NotFound("report"))
	}
}

// fail answers a request that could not be recorded in the session.
func (h *Handler) fail(c *gin.Context, id string, err error) {
	appErr := toAppError(err)
	if wantsJSON(c) {
		server.RespondWithError(c, appErr)
		return
	}
	state, _ := h.sessions.Get(id)
	data := newPageData(state, h.version)
	data.setError(appErr)
	h.render(c, appErr.HTTPStatus, data)
}

func toAppError(err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	return errors.Internal(err)
}

func formError(err error) *errors.AppError {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return middleware.TooLarge(tooLarge.Limit)
	}
	return errors.InvalidInput(FieldDataset, "could not read the uploaded form").WithCause(err)
}

// wantsJSON reports whether the client prefers JSON over the HTML page.
func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
