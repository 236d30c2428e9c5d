package handler

import (
	"net/http"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/middleware"
	"github.com/chatfusion/chatfusion-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// GroupHandler group chat endpoints
type GroupHandler struct {
	service service.GroupService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(service service.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

// MemberRequest names the user to add or promote
type MemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Create handles POST /api/v1/groups
// @Summary 그룹 생성
// @Tags groups
// @Accept json
// @Produce json
// @Param request body service.CreateGroupRequest true "요청 본문"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req service.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	group, err := h.service.CreateGroup(middleware.GetUserID(c), &req)
	if err != nil {
		common.Fail(c, "Failed to create group", err)
		return
	}
	common.Created(c, group)
}

// List handles GET /api/v1/groups
// @Summary 내 그룹 목록
// @Tags groups
// @Produce json
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.service.GetUserGroups(middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, "Failed to load groups", err)
		return
	}
	common.Success(c, groups)
}

// Get handles GET /api/v1/groups/:id
// @Summary 그룹 조회
// @Tags groups
// @Produce json
// @Param id path string true "그룹 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /groups/{id} [get]
func (h *GroupHandler) Get(c *gin.Context) {
	group, err := h.service.GetGroup(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, "Failed to load group", err)
		return
	}
	common.Success(c, group)
}

// AddMember handles POST /api/v1/groups/:id/members
// @Summary 그룹 멤버 추가
// @Tags groups
// @Accept json
// @Produce json
// @Param id path string true "그룹 ID"
// @Param request body handler.MemberRequest true "요청 본문"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /groups/{id}/members [post]
func (h *GroupHandler) AddMember(c *gin.Context) {
	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	group, err := h.service.AddMember(c.Param("id"), middleware.GetUserID(c), req.UserID)
	if err != nil {
		common.Fail(c, "Failed to add member", err)
		return
	}
	common.Success(c, group)
}

// RemoveMember handles DELETE /api/v1/groups/:id/members/:user_id
// @Summary 그룹 멤버 제거
// @Tags groups
// @Produce json
// @Param id path string true "그룹 ID"
// @Param user_id path string true "사용자 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /groups/{id}/members/{user_id} [delete]
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	group, err := h.service.RemoveMember(c.Param("id"), middleware.GetUserID(c), c.Param("user_id"))
	if err != nil {
		common.Fail(c, "Failed to remove member", err)
		return
	}
	common.Success(c, group)
}

// PromoteAdmin handles POST /api/v1/groups/:id/admins
// @Summary 그룹 관리자 지정
// @Tags groups
// @Accept json
// @Produce json
// @Param id path string true "그룹 ID"
// @Param request body handler.MemberRequest true "요청 본문"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /groups/{id}/admins [post]
func (h *GroupHandler) PromoteAdmin(c *gin.Context) {
	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	group, err := h.service.PromoteAdmin(c.Param("id"), middleware.GetUserID(c), req.UserID)
	if err != nil {
		common.Fail(c, "Failed to promote member", err)
		return
	}
	common.Success(c, group)
}
