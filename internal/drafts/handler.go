package drafts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jengahub-backend/internal/shared/server/middleware"
	"jengahub-backend/internal/shared/server/respond"
)

// Handler exposes draft persistence over HTTP for flow resume.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches draft routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/rfq/drafts", h.save)
	rg.GET("/rfq/drafts", h.load)
	rg.DELETE("/rfq/drafts", h.clear)
}

type saveDraftRequest struct {
	RFQType        string         `json:"rfqType"`
	CategorySlug   string         `json:"categorySlug"`
	JobTypeSlug    string         `json:"jobTypeSlug"`
	TemplateFields map[string]any `json:"templateFields"`
	SharedFields   map[string]any `json:"sharedFields"`
}

func (h *Handler) save(c *gin.Context) {
	var req saveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	key := h.keyFromRequest(c, req.RFQType, req.CategorySlug, req.JobTypeSlug)
	if !key.Valid() {
		respond.Error(c, http.StatusBadRequest, "validation_error", "rfqType, categorySlug and jobTypeSlug are required", nil)
		return
	}

	saved := h.Svc.Save(c.Request.Context(), key, Draft{
		RFQType:        key.RFQType,
		CategorySlug:   key.CategorySlug,
		JobTypeSlug:    key.JobTypeSlug,
		TemplateFields: req.TemplateFields,
		SharedFields:   req.SharedFields,
	})

	// Draft persistence is soft-fail: a failed write is still a 200 so the
	// flow continues as if no draft existed.
	respond.OK(c, gin.H{"saved": saved})
}

func (h *Handler) load(c *gin.Context) {
	key := h.keyFromRequest(c, c.Query("rfqType"), c.Query("categorySlug"), c.Query("jobTypeSlug"))
	if !key.Valid() {
		respond.Error(c, http.StatusBadRequest, "validation_error", "rfqType, categorySlug and jobTypeSlug are required", nil)
		return
	}

	draft := h.Svc.Load(c.Request.Context(), key)
	if draft == nil {
		respond.OK(c, gin.H{"draft": nil})
		return
	}
	respond.OK(c, gin.H{"draft": draft})
}

func (h *Handler) clear(c *gin.Context) {
	key := h.keyFromRequest(c, c.Query("rfqType"), c.Query("categorySlug"), c.Query("jobTypeSlug"))
	if !key.Valid() {
		respond.Error(c, http.StatusBadRequest, "validation_error", "rfqType, categorySlug and jobTypeSlug are required", nil)
		return
	}

	h.Svc.Clear(c.Request.Context(), key)
	respond.OK(c, gin.H{"cleared": true})
}

func (h *Handler) keyFromRequest(c *gin.Context, rfqType, categorySlug, jobTypeSlug string) Key {
	return Key{
		OwnerID:      middleware.UserIDFromContext(c),
		RFQType:      rfqType,
		CategorySlug: categorySlug,
		JobTypeSlug:  jobTypeSlug,
	}
}
