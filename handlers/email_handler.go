package handlers

import (
	"errors"
	"net/http"

	"mailcraft-backend/middleware"
	"mailcraft-backend/models"
	"mailcraft-backend/service"
	"mailcraft-backend/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmailHandler handles HTTP requests for generated emails
type EmailHandler struct {
	emailService *service.EmailService
	logger       *zap.Logger
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(emailService *service.EmailService, logger *zap.Logger) *EmailHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailHandler{
		emailService: emailService,
		logger:       logger,
	}
}

// GenerateEmail handles POST /api/v1/email/generate-email
func (h *EmailHandler) GenerateEmail(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
		return
	}

	input, violations := parseBody(c, validation.ParseGenerateEmail)
	if violations != nil {
		c.JSON(http.StatusLengthRequired, gin.H{
			"msg":    "You sent the wrong inputs",
			"errors": violations,
		})
		return
	}

	email, err := h.emailService.Generate(c.Request.Context(), service.GenerateEmailRequest{
		UserID:      userID,
		Purpose:     input.Purpose,
		SubjectLine: input.SubjectLine,
		Recipients:  input.Recipients,
		Senders:     input.Senders,
		MaxLength:   input.MaxLength,
		Tone:        input.Tone,
	})
	if err != nil {
		h.logger.Error("email generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"msg":   "Error generating or saving email",
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":   "Email created",
		"email": email.GeneratedEmail,
	})
}

// ListEmails handles GET /api/v1/email/emails
func (h *EmailHandler) ListEmails(c *gin.Context) {
	emails, err := h.emailService.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list emails", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"msg":   "Error fetching emails",
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, nonNil(emails))
}

// History handles GET /api/v1/email/emails/user/:userId
func (h *EmailHandler) History(c *gin.Context) {
	callerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
		return
	}

	// An unparseable id can never match the caller
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"msg": "Unauthorized"})
		return
	}

	emails, err := h.emailService.History(c.Request.Context(), callerID, targetID)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"msg": "Unauthorized"})
			return
		}
		h.logger.Error("failed to fetch email history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"msg":   "Error fetching email history",
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":    "Email history for user retrieved.",
		"emails": nonNil(emails),
	})
}

// Favorites handles GET /api/v1/email/emails/user/:userId/favorites
func (h *EmailHandler) Favorites(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid user id"})
		return
	}

	emails, err := h.emailService.Favorites(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to fetch favorite emails", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"msg":   "Error fetching favorite emails",
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":    "Favorite emails retrieved.",
		"emails": nonNil(emails),
	})
}

// ToggleFavorite handles PUT /api/v1/email/emails/:emailId/favorite
func (h *EmailHandler) ToggleFavorite(c *gin.Context) {
	emailID, err := uuid.Parse(c.Param("emailId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid email id"})
		return
	}

	email, err := h.emailService.ToggleFavorite(c.Request.Context(), emailID)
	if err != nil {
		if errors.Is(err, service.ErrEmailNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Email not found"})
			return
		}
		h.logger.Error("failed to toggle favorite", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"msg":   "Error updating email favorite status",
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":   "Email favorite status updated",
		"email": email,
	})
}

// nonNil keeps empty listings serialized as [] instead of null
func nonNil(emails []*models.Email) []*models.Email {
	if emails == nil {
		return []*models.Email{}
	}
	return emails
}
