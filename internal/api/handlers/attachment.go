package handlers

import (
	"errors"
	"net/http"

	"crm-platform-backend/internal/auth"
	apperrors "crm-platform-backend/internal/errors"
	"crm-platform-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AttachmentHandler handles HTTP requests for attachment operations
type AttachmentHandler struct {
	attachmentService service.AttachmentServiceInterface
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(attachmentService service.AttachmentServiceInterface) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}
}

// CreateAttachment handles POST /attachments
func (h *AttachmentHandler) CreateAttachment(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req service.CreateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attachment, err := h.attachmentService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		if apperrors.IsReferential(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		if apperrors.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

// GetAttachment handles GET /attachments/:id
func (h *AttachmentHandler) GetAttachment(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attachment ID"})
		return
	}

	attachment, err := h.attachmentService.GetByID(c.Request.Context(), id, callerID(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrAttachmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, attachment)
}

// ListAttachments handles GET /attachments
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
	page, pageSize := paginationParams(c)

	attachments, err := h.attachmentService.GetAll(c.Request.Context(), callerID(c), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, attachments)
}

// DeleteAttachment handles DELETE /attachments/:id
func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attachment ID"})
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), id, callerID(c)); err != nil {
		if errors.Is(err, apperrors.ErrAttachmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// callerID returns the authenticated user id for the uploader visibility
// branch, or nil when unauthenticated
func callerID(c *gin.Context) *uuid.UUID {
	userID, ok := auth.GetUserID(c)
	if !ok {
		return nil
	}
	return &userID
}
