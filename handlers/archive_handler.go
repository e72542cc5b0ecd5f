package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"mailcraft-backend/middleware"
	"mailcraft-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const archiveContentType = "text/plain; charset=utf-8"

// DownloadArchive handles GET /api/v1/email/emails/:emailId/archive
func (h *EmailHandler) DownloadArchive(c *gin.Context) {
	callerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
		return
	}

	emailID, err := uuid.Parse(c.Param("emailId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid email id"})
		return
	}

	reader, err := h.emailService.Archived(c.Request.Context(), callerID, emailID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"msg": "Unauthorized"})
		case errors.Is(err, service.ErrEmailNotFound), errors.Is(err, service.ErrArchiveNotFound):
			c.JSON(http.StatusNotFound, gin.H{"msg": "Email not found"})
		case errors.Is(err, service.ErrArchiveDisabled):
			c.JSON(http.StatusNotFound, gin.H{"msg": "Email archive is disabled"})
		default:
			h.logger.Error("failed to read archived email", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"msg":   "Error fetching archived email",
				"error": err.Error(),
			})
		}
		return
	}
	defer reader.Close()

	// Set headers
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.txt\"", emailID))
	c.DataFromReader(http.StatusOK, -1, archiveContentType, reader, nil)
}
