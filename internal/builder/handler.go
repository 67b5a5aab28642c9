package builder

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/internal/forms"
	"github.com/goliatone/go-formbuilder/internal/response"
	"github.com/goliatone/go-formbuilder/internal/session"
	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/drafts"
	"github.com/goliatone/go-formbuilder/pkg/editor"
	"github.com/goliatone/go-formbuilder/pkg/gateway"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/schemafile"
)

// View is the JSON shape of an editing session.
type View struct {
	ID     string           `json:"id"`
	Schema model.FormSchema `json:"schema"`
	State  editor.Snapshot  `json:"state"`
}

// ActionResponse is returned after applying an action.
type ActionResponse struct {
	Outcome
	Session View `json:"session"`
}

// PaletteEntry is one entry of GET /api/builder/palette.
type PaletteEntry struct {
	Type       model.FieldType `json:"type"`
	Label      string          `json:"label"`
	Attributes []string        `json:"attributes"`
}

// DraftResponse is returned by POST /api/drafts.
type DraftResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// Handler serves builder sessions, previews and drafts.
type Handler struct {
	sessions *Manager
	gateway  gateway.Gateway
	identity session.Provider
	drafts   drafts.Store
	preview  render.Renderer
	log      *zap.Logger
}

// NewHandler wires the builder endpoints. preview renders schemas in preview
// mode, normally with the HTML renderer.
func NewHandler(sessions *Manager, gw gateway.Gateway, identity session.Provider, store drafts.Store, preview render.Renderer, log *zap.Logger) *Handler {
	if identity == nil {
		identity = session.Hourly{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{sessions: sessions, gateway: gw, identity: identity, drafts: store, preview: preview, log: log}
}

// RegisterRoutes mounts the API under api and the draft preview page under
// root.
func (h *Handler) RegisterRoutes(root *gin.RouterGroup, api *gin.RouterGroup) {
	g := api.Group("/builder")
	g.GET("/palette", h.palette)
	g.POST("/sessions", h.create)
	g.GET("/sessions/:id", h.get)
	g.DELETE("/sessions/:id", h.close)
	g.POST("/sessions/:id/actions", h.apply)
	g.GET("/sessions/:id/preview", h.previewSession)
	g.POST("/sessions/:id/publish", h.publish)

	api.POST("/drafts", h.putDraft)
	root.GET("/preview/:token", h.previewDraft)
}

func (h *Handler) palette(c *gin.Context) {
	descriptors := h.sessions.Registry().Search(c.Query("q"))
	out := make([]PaletteEntry, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, PaletteEntry{Type: d.Type, Label: d.Label, Attributes: d.Attributes})
	}
	response.OK(c, out)
}

// create opens a session, optionally seeded with {formName, formComponents}.
// The seed is coerced like any imported document.
func (h *Handler) create(c *gin.Context) {
	schema := model.FormSchema{Fields: []model.Field{}}
	if c.Request.ContentLength != 0 {
		var doc any
		if err := c.ShouldBindJSON(&doc); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if doc != nil {
			result, err := schemafile.Coerce(doc, schemafile.CoerceOptions{Registry: h.sessions.Registry()})
			if err != nil {
				response.BadRequest(c, err.Error())
				return
			}
			schema = result.Schema
		}
	}
	s := h.sessions.Create(schema)
	var view View
	_ = s.Do(func(ed *editor.Editor) error {
		view = viewOf(s.ID, ed)
		return nil
	})
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var view View
	_ = s.Do(func(ed *editor.Editor) error {
		view = viewOf(s.ID, ed)
		return nil
	})
	response.OK(c, view)
}

func (h *Handler) close(c *gin.Context) {
	if err := h.sessions.Close(c.Param("id")); err != nil {
		response.NotFoundMsg(c, "Session not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) apply(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var action Action
	if err := c.ShouldBindJSON(&action); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var out ActionResponse
	err := s.Do(func(ed *editor.Editor) error {
		outcome, err := Apply(ed, action)
		if err != nil {
			return err
		}
		out = ActionResponse{Outcome: outcome, Session: viewOf(s.ID, ed)}
		return nil
	})
	switch {
	case err == nil:
		response.OK(c, out)
	case errors.Is(err, ErrUnknownAction), errors.Is(err, ErrInvalidValue), errors.Is(err, components.ErrUnknownType):
		response.BadRequest(c, err.Error())
	default:
		response.Error(c, http.StatusConflict, err.Error())
	}
}

func (h *Handler) previewSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var schema model.FormSchema
	_ = s.Do(func(ed *editor.Editor) error {
		schema = ed.Schema()
		return nil
	})
	h.renderPreview(c, schema)
}

// publish sends the session's schema through the gateway. Local state is
// kept whatever the outcome so a failed publish can be retried.
func (h *Handler) publish(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var body struct {
		SessionID string `json:"sessionId"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}
	owner := strings.TrimSpace(body.SessionID)
	if owner == "" {
		owner = h.identity.SessionID(forms.ClientIP(c))
	}

	var schema model.FormSchema
	_ = s.Do(func(ed *editor.Editor) error {
		schema = ed.Schema()
		return nil
	})

	ref, err := h.gateway.CreateForm(c.Request.Context(), gateway.CreateRequest{Schema: schema, SessionID: owner})
	if err != nil {
		h.log.Warn("publish failed", zap.String("session", s.ID), zap.Error(err))
		var transport *gateway.TransportError
		if errors.As(err, &transport) {
			response.Error(c, http.StatusBadGateway, transport.Error())
			return
		}
		if errors.Is(err, gateway.ErrSessionRequired) {
			response.BadRequest(c, "Session ID required")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gateway.CreateResponse{Success: true, ID: ref.ID, URL: ref.URL})
}

func (h *Handler) putDraft(c *gin.Context) {
	if h.drafts == nil {
		response.Error(c, http.StatusServiceUnavailable, "Drafts are disabled")
		return
	}
	var doc any
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := schemafile.Coerce(doc, schemafile.CoerceOptions{Registry: h.sessions.Registry()})
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, err := h.drafts.Put(c.Request.Context(), result.Schema)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, DraftResponse{Token: token, URL: "/preview/" + token})
}

// previewDraft renders a draft once; the token is spent by the read.
func (h *Handler) previewDraft(c *gin.Context) {
	if h.drafts == nil {
		c.String(http.StatusNotFound, "Draft not found")
		return
	}
	schema, err := h.drafts.Take(c.Request.Context(), c.Param("token"))
	if errors.Is(err, drafts.ErrNotFound) {
		c.String(http.StatusNotFound, "Draft not found")
		return
	}
	if err != nil {
		h.log.Error("take draft", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load draft")
		return
	}
	h.renderPreview(c, schema)
}

func (h *Handler) renderPreview(c *gin.Context, schema model.FormSchema) {
	body, err := h.preview.Render(c.Request.Context(), schema, render.RenderOptions{Mode: render.ModePreview})
	if err != nil {
		h.log.Error("render preview", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to render preview")
		return
	}
	c.Data(http.StatusOK, h.preview.ContentType(), body)
}

func (h *Handler) session(c *gin.Context) (*Session, bool) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		response.NotFoundMsg(c, "Session not found")
		return nil, false
	}
	return s, true
}

func viewOf(id string, ed *editor.Editor) View {
	schema := ed.Schema()
	if schema.Fields == nil {
		schema.Fields = []model.Field{}
	}
	return View{ID: id, Schema: schema, State: ed.Snapshot()}
}
