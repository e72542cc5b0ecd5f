package handlers

import (
	"errors"
	"net/http"

	"mailcraft-backend/middleware"
	"mailcraft-backend/service"
	"mailcraft-backend/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for accounts
type UserHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *service.AuthService, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles POST /api/v1/user/signup
func (h *UserHandler) Signup(c *gin.Context) {
	input, violations := parseBody(c, validation.ParseSignup)
	if violations != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"msg":    "Invalid input",
			"errors": violations,
		})
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), service.SignupRequest{
		Email:    input.Email,
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Email already registered"})
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Username already taken"})
		default:
			h.logger.Error("signup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"msg":   "Error creating user",
				"error": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg":    "User created successfully",
		"token":  result.Token,
		"userId": result.UserID,
	})
}

// Signin handles POST /api/v1/user/signin
func (h *UserHandler) Signin(c *gin.Context) {
	input, violations := parseBody(c, validation.ParseSignin)
	if violations != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"msg":    "Invalid input",
			"errors": violations,
		})
		return
	}

	result, err := h.authService.Signin(c.Request.Context(), service.SigninRequest{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Incorrect email or password"})
			return
		}
		h.logger.Error("signin failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"msg":   "Failed to sign in",
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  result.Token,
		"userId": result.UserID,
	})
}

// Me handles GET /api/v1/user/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.logger.Error("failed to load user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"msg":   "Error fetching user",
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
	})
}

// ListUsers handles GET /api/v1/user/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"msg":   "Error fetching users",
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, users)
}
