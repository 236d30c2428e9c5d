package handler

import (
	"net/http"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/middleware"
	"github.com/chatfusion/chatfusion-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginRequest login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/v1/auth/register
// @Summary 회원가입
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "요청 본문"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.service.CreateUser(&req)
	if err != nil {
		common.Fail(c, "Registration failed", err)
		return
	}
	common.Created(c, user)
}

// Login handles POST /api/v1/auth/login
// @Summary 로그인
// @Tags auth
// @Accept json
// @Produce json
// @Param request body handler.LoginRequest true "요청 본문"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		common.Fail(c, "Login failed", err)
		return
	}
	common.Success(c, resp)
}

// Logout handles POST /api/v1/auth/logout
// 토큰은 만료 시까지 유효, 상태만 offline 으로 변경
// @Summary 로그아웃
// @Tags auth
// @Produce json
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		common.Fail(c, "Logout failed", err)
		return
	}
	common.Success(c, gin.H{"message": "Logged out"})
}

// Me handles GET /api/v1/auth/me
// @Summary 내 정보 조회
// @Tags auth
// @Produce json
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.GetUser(middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, "Failed to load user", err)
		return
	}
	common.Success(c, user)
}
