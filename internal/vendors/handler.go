package vendors

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches vendor directory routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/vendors", h.list)
	rg.GET("/vendors/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	list, err := h.Svc.List(c.Request.Context(), c.Query("category"), c.Query("county"), limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown category", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list vendors", nil)
		}
		return
	}

	resp := make([]vendorResponse, 0, len(list))
	for _, vendor := range list {
		resp = append(resp, toResponse(vendor))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	c.Set("vendorId", c.Param("id"))
	vendor, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "vendor not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "vendor id is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch vendor", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(vendor))
}
