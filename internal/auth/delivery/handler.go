package delivery

import (
	"net/http"

	authdto "feedhub-backend/internal/auth/dto"
	"feedhub-backend/internal/auth/usecase"
	"feedhub-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Signup registers a new user
// PUT /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req authdto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.Binding(err))
		return
	}

	userID, err := h.authUsecase.Signup(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"userId":  userID,
	})
}

// Login issues a session token
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.Binding(err))
		return
	}

	resp, err := h.authUsecase.Login(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUsecase.GetUser(c.Request.Context(), UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GET /auth/status
func (h *AuthHandler) GetStatus(c *gin.Context) {
	status, err := h.authUsecase.GetStatus(c.Request.Context(), UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Status fetched successfully!",
		"status":  status,
	})
}

// PATCH /auth/status
func (h *AuthHandler) UpdateStatus(c *gin.Context) {
	var req authdto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.Binding(err))
		return
	}

	status, err := h.authUsecase.SetStatus(c.Request.Context(), UserID(c), req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated successfully!",
		"status":  status,
	})
}

// RegisterFCMToken stores a device token for new-post pushes
// POST /fcm/register
func (h *AuthHandler) RegisterFCMToken(c *gin.Context) {
	var req authdto.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.Binding(err))
		return
	}

	if err := h.authUsecase.RegisterDevice(c.Request.Context(), UserID(c), &req); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device registered"})
}

// DELETE /fcm/:token
func (h *AuthHandler) UnregisterFCMToken(c *gin.Context) {
	if err := h.authUsecase.UnregisterDevice(c.Request.Context(), UserID(c), c.Param("token")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device unregistered"})
}
