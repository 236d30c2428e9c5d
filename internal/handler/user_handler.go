package handler

import (
	"net/http"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/chatfusion/chatfusion-backend/internal/middleware"
	"github.com/chatfusion/chatfusion-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// UserHandler profile and status endpoints
type UserHandler struct {
	service service.AuthService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service service.AuthService) *UserHandler {
	return &UserHandler{service: service}
}

// StatusRequest body of PUT /users/me/status
type StatusRequest struct {
	Status domain.OnlineStatus `json:"status" binding:"required"`
}

// UpdateProfile handles PUT /api/v1/users/me
// @Summary 프로필 수정
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.UpdateProfileRequest true "요청 본문"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		common.Fail(c, "Failed to update profile", err)
		return
	}
	common.Success(c, user)
}

// SetStatus handles PUT /api/v1/users/me/status
// @Summary 접속 상태 변경
// @Tags users
// @Accept json
// @Produce json
// @Param request body handler.StatusRequest true "요청 본문"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /users/me/status [put]
func (h *UserHandler) SetStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.SetOnlineStatus(c.Request.Context(), middleware.GetUserID(c), req.Status); err != nil {
		common.Fail(c, "Failed to update status", err)
		return
	}
	common.Success(c, gin.H{"status": req.Status})
}

// GetProfile handles GET /api/v1/users/:id
// @Summary 사용자 프로필 조회
// @Tags users
// @Produce json
// @Param id path string true "사용자 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.Fail(c, "User not found", err)
		return
	}
	common.Success(c, profile)
}
