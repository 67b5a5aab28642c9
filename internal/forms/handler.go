package forms

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/internal/middleware"
	"github.com/goliatone/go-formbuilder/internal/response"
	"github.com/goliatone/go-formbuilder/internal/session"
	"github.com/goliatone/go-formbuilder/pkg/gateway"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
)

// SubmittedNotice is shown on the published page after a stored submission.
const SubmittedNotice = "Form submitted successfully!"

// Handler exposes the gateway over HTTP.
type Handler struct {
	svc      *Service
	sessions session.Provider
	admin    middleware.Admin
	page     render.Renderer
	log      *zap.Logger
}

// NewHandler wires the HTTP layer. page renders the published form; a nil
// page uses the HTML renderer with the service's components.
func NewHandler(svc *Service, sessions session.Provider, admin middleware.Admin, page render.Renderer, log *zap.Logger) (*Handler, error) {
	if sessions == nil {
		sessions = session.Hourly{}
	}
	if page == nil {
		renderer, err := html.New(html.WithStrategies(svc.Registry()))
		if err != nil {
			return nil, err
		}
		page = renderer
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, sessions: sessions, admin: admin, page: page, log: log}, nil
}

// RegisterRoutes mounts the API under api and the public page under root.
// submitMW runs before submissions, normally the rate limiter.
func (h *Handler) RegisterRoutes(root *gin.RouterGroup, api *gin.RouterGroup, submitMW ...gin.HandlerFunc) {
	api.GET("/session", h.issueSession)
	api.POST("/session", h.checkSession)

	g := api.Group("/forms")
	g.GET("", h.admin.Detect(), h.list)
	g.POST("", h.create)
	g.GET("/:uuid", h.get)
	g.DELETE("/:uuid", h.admin.Require(), h.delete)
	g.GET("/:uuid/contract", h.contract)
	g.POST("/:uuid/submit", append(append([]gin.HandlerFunc{h.admin.Detect()}, submitMW...), h.submit)...)

	root.GET("/f/:uuid", h.publishedPage)
}

func (h *Handler) issueSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessionId": h.sessions.SessionID(ClientIP(c))})
}

func (h *Handler) checkSession(c *gin.Context) {
	var body struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !session.Valid(body.SessionID) {
		response.BadRequest(c, "Invalid session ID")
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *Handler) create(c *gin.Context) {
	var body gateway.CreatePayload
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(body.SessionID) == "" {
		response.BadRequest(c, "Session ID required")
		return
	}
	ref, err := h.svc.CreateForm(c.Request.Context(), gateway.CreateRequest{
		Name:      body.Name,
		Schema:    body.Schema(),
		SessionID: body.SessionID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gateway.CreateResponse{Success: true, ID: ref.ID, URL: ref.URL})
}

func (h *Handler) list(c *gin.Context) {
	scope := gateway.Scope{SessionID: c.GetHeader(gateway.HeaderSessionID)}
	if middleware.IsAdmin(c) {
		scope.AdminCredential = middleware.BearerToken(c)
	}
	forms, err := h.svc.ListForms(c.Request.Context(), scope)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, forms)
}

func (h *Handler) get(c *gin.Context) {
	form, err := h.svc.FetchForm(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, form)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.DeleteForm(c.Request.Context(), c.Param("uuid"), middleware.BearerToken(c)); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gateway.DeleteResponse{Success: true})
}

func (h *Handler) contract(c *gin.Context) {
	doc, err := h.svc.Contract(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if strings.EqualFold(c.Query("format"), "yaml") {
		data, err := doc.YAML()
		if err != nil {
			response.InternalError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/yaml", data)
		return
	}
	data, err := doc.JSON()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// submit accepts a JSON values map, or a browser form post from the
// published page which is answered with the re-rendered page.
func (h *Handler) submit(c *gin.Context) {
	id := c.Param("uuid")
	if isFormPost(c) {
		h.submitPage(c, id)
		return
	}

	values := model.Values{}
	if err := c.ShouldBindJSON(&values); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.svc.Submit(c.Request.Context(), id, values)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gateway.SubmitResponse{Success: true, SubmissionID: result.SubmissionID})
}

func (h *Handler) submitPage(c *gin.Context, id string) {
	form, err := h.svc.FetchForm(c.Request.Context(), id)
	if err != nil {
		h.failPage(c, err)
		return
	}
	posted, err := postedForm(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	values := html.DecodeValues(form.Schema, posted)

	_, err = h.svc.Submit(c.Request.Context(), id, values)
	var rejected *gateway.RejectedError
	switch {
	case errors.As(err, &rejected):
		mapped := render.MapErrors(form.Schema, rejected.Fields)
		h.renderPage(c, http.StatusUnprocessableEntity, form, render.RenderOptions{
			Values:     values,
			Errors:     mapped.Fields,
			FormErrors: mapped.Form,
		})
	case err != nil:
		h.failPage(c, err)
	default:
		h.renderPage(c, http.StatusOK, form, render.RenderOptions{Notice: SubmittedNotice})
	}
}

func (h *Handler) publishedPage(c *gin.Context) {
	form, err := h.svc.FetchForm(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		h.failPage(c, err)
		return
	}
	h.renderPage(c, http.StatusOK, form, render.RenderOptions{})
}

func (h *Handler) renderPage(c *gin.Context, status int, form model.PublishedForm, opts render.RenderOptions) {
	opts.Mode = render.ModePublished
	opts.Action = "/api/forms/" + form.ID + "/submit"
	body, err := h.page.Render(c.Request.Context(), form.Schema, opts)
	if err != nil {
		h.log.Error("render published form", zap.String("uuid", form.ID), zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to render form")
		return
	}
	c.Data(status, h.page.ContentType(), body)
}

func (h *Handler) failPage(c *gin.Context, err error) {
	if errors.Is(err, gateway.ErrNotFound) {
		c.String(http.StatusNotFound, "Form not found")
		return
	}
	h.log.Error("published form", zap.Error(err))
	c.String(http.StatusInternalServerError, "Failed to load form")
}

// fail maps gateway errors onto the response envelope.
func (h *Handler) fail(c *gin.Context, err error) {
	var rejected *gateway.RejectedError
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		response.NotFoundMsg(c, "Form not found")
	case errors.Is(err, gateway.ErrUnauthorized):
		response.Unauthorized(c)
	case errors.Is(err, gateway.ErrSessionRequired):
		response.BadRequest(c, "Session ID required")
	case errors.As(err, &rejected):
		response.Invalid(c, rejected.Message, rejected.Fields)
	default:
		h.log.Error("forms request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c, err)
	}
}

// postedForm reads the submitted fields of a urlencoded or multipart body.
func postedForm(c *gin.Context) (url.Values, error) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		return form.Value, nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return c.Request.PostForm, nil
}

func isFormPost(c *gin.Context) bool {
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		return true
	}
	return false
}

// ClientIP resolves the address sessions are derived from: the first
// X-Forwarded-For entry, then X-Real-IP, then the connection address.
func ClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(c.GetHeader("X-Real-IP")); real != "" {
		return real
	}
	return c.ClientIP()
}
