package rfqs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jengahub-backend/internal/shared/server/middleware"
	"jengahub-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches RFQ routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rfq/create", h.create)
	rg.GET("/rfq/recipients", h.recipients)
	rg.GET("/rfq/:id", h.get)
	rg.GET("/rfqs", h.list)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}

	sub := Submission{
		RFQType:            req.RFQType,
		CategorySlug:       req.CategorySlug,
		JobTypeSlug:        req.JobTypeSlug,
		TemplateFields:     req.TemplateFields,
		SharedFields:       req.SharedFields,
		ReferenceImages:    req.ReferenceImages,
		SelectedVendors:    req.SelectedVendors,
		AllowOtherVendors:  req.AllowOtherVendors,
		Visibility:         req.Visibility,
		ResponseCap:        req.ResponseCap,
		UserID:             middleware.UserIDFromContext(c),
		GuestEmail:         req.GuestEmail,
		GuestPhone:         req.GuestPhone,
		GuestPhoneVerified: req.GuestPhoneVerified,
	}

	rfq, err := h.Svc.Create(c.Request.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, ErrQuotaExceeded):
			respond.Error(c, http.StatusPaymentRequired, "payment_required", "You have reached your monthly RFQ limit", quotaDetails(c, h.Svc, sub.UserID))
		case errors.Is(err, ErrRateLimited):
			respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, please try again shortly", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "submission failed validation", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create RFQ", nil)
		}
		return
	}

	c.Set("rfqId", rfq.ID)
	respond.JSON(c, http.StatusCreated, gin.H{"rfqId": rfq.ID})
}

func (h *Handler) get(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	c.Set("rfqId", c.Param("id"))
	rfq, assignments, err := h.Svc.Get(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "RFQ not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch RFQ", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(rfq, assignments))
}

func (h *Handler) list(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	limit := queryInt(c, "limit")
	offset := queryInt(c, "offset")

	list, err := h.Svc.List(c.Request.Context(), ownerID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list RFQs", nil)
		return
	}

	resp := make([]rfqResponse, 0, len(list))
	for _, rfq := range list {
		resp = append(resp, toResponse(rfq, nil))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) recipients(c *gin.Context) {
	preview, err := h.Svc.Recipients(c.Request.Context(), c.Query("category"), c.Query("county"), c.Query("town"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown category", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute recipients", nil)
		}
		return
	}

	matches := make([]candidateResponse, 0, len(preview.Matches))
	for _, cand := range preview.Matches {
		matches = append(matches, toCandidateResponse(cand))
	}
	specialists := make([]string, 0, len(preview.Specialists))
	for _, v := range preview.Specialists {
		specialists = append(specialists, v.ID)
	}
	others := make([]string, 0, len(preview.Others))
	for _, v := range preview.Others {
		others = append(others, v.ID)
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"matches":     matches,
		"specialists": specialists,
		"others":      others,
	})
}

// quotaDetails attaches the caller's current quota to the 402 response so
// the client can render limit and reset date without a second request.
func quotaDetails(c *gin.Context, svc *Service, userID string) any {
	if svc == nil || svc.Quota == nil {
		return nil
	}
	q, err := svc.Quota.Get(c.Request.Context(), userID)
	if err != nil {
		return nil
	}
	return gin.H{
		"plan":     q.Plan,
		"limit":    q.Limit,
		"used":     q.Used,
		"resetsAt": q.ResetsAt,
	}
}

func queryInt(c *gin.Context, key string) int {
	v := c.Query(key)
	if v == "" {
		return 0
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return parsed
}
