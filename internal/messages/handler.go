package messages

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jengahub-backend/internal/rfqs"
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

// RegisterRoutes attaches conversation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/messages", h.send)
	rg.GET("/messages", h.thread)
	rg.POST("/messages/:id/read", h.markRead)
	rg.GET("/messages/:id/attachment", h.attachment)
}

func (h *Handler) send(c *gin.Context) {
	senderID := middleware.UserIDFromContext(c)

	rfqID := c.PostForm("rfqId")
	recipientID := c.PostForm("recipientId")
	body := c.PostForm("body")
	if rfqID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "rfqId is required", nil)
		return
	}

	var file *FileUpload
	if header, err := c.FormFile("attachment"); err == nil {
		f, err := header.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read attachment", nil)
			return
		}
		defer f.Close()
		file = &FileUpload{FileName: header.Filename, Reader: f}
	}

	msg, err := h.Svc.Send(c.Request.Context(), rfqID, senderID, recipientID, body, file)
	if err != nil {
		switch {
		case errors.Is(err, rfqs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "RFQ not found", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "not a participant of this conversation", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "message body or a valid attachment is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to send message", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, msg)
}

func (h *Handler) thread(c *gin.Context) {
	requesterID := middleware.UserIDFromContext(c)
	rfqID := c.Query("rfqId")
	if rfqID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "rfqId is required", nil)
		return
	}
	limit := queryInt(c, "limit")
	offset := queryInt(c, "offset")

	thread, err := h.Svc.Thread(c.Request.Context(), rfqID, requesterID, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, rfqs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "RFQ not found", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "not a participant of this conversation", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load conversation", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, thread)
}

func (h *Handler) markRead(c *gin.Context) {
	requesterID := middleware.UserIDFromContext(c)
	if err := h.Svc.MarkRead(c.Request.Context(), requesterID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "message not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to mark message read", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"read": true})
}

func (h *Handler) attachment(c *gin.Context) {
	requesterID := middleware.UserIDFromContext(c)

	attachment, reader, err := h.Svc.OpenAttachment(c.Request.Context(), requesterID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "attachment not found", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "not a participant of this conversation", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load attachment", nil)
		}
		return
	}
	defer reader.Close()

	c.Header("Content-Type", attachment.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	c.DataFromReader(http.StatusOK, attachment.SizeBytes, attachment.MimeType, reader, nil)
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
