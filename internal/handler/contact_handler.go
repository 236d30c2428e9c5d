package handler

import (
	"net/http"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/middleware"
	"github.com/chatfusion/chatfusion-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ContactHandler contacts and friend request endpoints
type ContactHandler struct {
	service service.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(service service.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// FavoriteRequest body of PUT /contacts/:contact_id/favorite
type FavoriteRequest struct {
	Favorite *bool `json:"favorite" binding:"required"`
}

// NicknameRequest a null nickname clears it
type NicknameRequest struct {
	Nickname *string `json:"nickname"`
}

// RespondRequest body of POST /friend-requests/:id/respond
type RespondRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// List handles GET /api/v1/contacts
// @Summary 연락처 목록
// @Tags contacts
// @Produce json
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.service.GetContacts(middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, "Failed to load contacts", err)
		return
	}
	common.Success(c, contacts)
}

// Add handles POST /api/v1/contacts
// @Summary 연락처 추가
// @Tags contacts
// @Accept json
// @Produce json
// @Param request body service.AddContactRequest true "요청 본문"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /contacts [post]
func (h *ContactHandler) Add(c *gin.Context) {
	var req service.AddContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	contact, err := h.service.AddContact(middleware.GetUserID(c), &req)
	if err != nil {
		common.Fail(c, "Failed to add contact", err)
		return
	}
	common.Created(c, contact)
}

// Block handles POST /api/v1/contacts/:contact_id/block
// @Summary 연락처 차단
// @Tags contacts
// @Produce json
// @Param contact_id path string true "연락처 사용자 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /contacts/{contact_id}/block [post]
func (h *ContactHandler) Block(c *gin.Context) {
	if err := h.service.BlockContact(middleware.GetUserID(c), c.Param("contact_id")); err != nil {
		common.Fail(c, "Failed to block contact", err)
		return
	}
	common.Success(c, gin.H{"blocked": true})
}

// Unblock handles DELETE /api/v1/contacts/:contact_id/block
// @Summary 연락처 차단 해제
// @Tags contacts
// @Produce json
// @Param contact_id path string true "연락처 사용자 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /contacts/{contact_id}/block [delete]
func (h *ContactHandler) Unblock(c *gin.Context) {
	if err := h.service.UnblockContact(middleware.GetUserID(c), c.Param("contact_id")); err != nil {
		common.Fail(c, "Failed to unblock contact", err)
		return
	}
	common.Success(c, gin.H{"blocked": false})
}

// SetFavorite handles PUT /api/v1/contacts/:contact_id/favorite
// @Summary 즐겨찾기 설정
// @Tags contacts
// @Accept json
// @Produce json
// @Param contact_id path string true "연락처 사용자 ID"
// @Param request body handler.FavoriteRequest true "요청 본문"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /contacts/{contact_id}/favorite [put]
func (h *ContactHandler) SetFavorite(c *gin.Context) {
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.SetFavorite(middleware.GetUserID(c), c.Param("contact_id"), *req.Favorite); err != nil {
		common.Fail(c, "Failed to update contact", err)
		return
	}
	common.Success(c, gin.H{"favorite": *req.Favorite})
}

// SetNickname handles PUT /api/v1/contacts/:contact_id/nickname
// @Summary 연락처 별명 설정
// @Tags contacts
// @Accept json
// @Produce json
// @Param contact_id path string true "연락처 사용자 ID"
// @Param request body handler.NicknameRequest true "요청 본문"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /contacts/{contact_id}/nickname [put]
func (h *ContactHandler) SetNickname(c *gin.Context) {
	var req NicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.SetNickname(middleware.GetUserID(c), c.Param("contact_id"), req.Nickname); err != nil {
		common.Fail(c, "Failed to update contact", err)
		return
	}
	common.Success(c, gin.H{"nickname": req.Nickname})
}

// SendFriendRequest handles POST /api/v1/friend-requests
// @Summary 친구 요청 보내기
// @Tags friend-requests
// @Accept json
// @Produce json
// @Param request body service.FriendRequestInput true "요청 본문"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /friend-requests [post]
func (h *ContactHandler) SendFriendRequest(c *gin.Context) {
	var req service.FriendRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	fr, err := h.service.SendFriendRequest(middleware.GetUserID(c), &req)
	if err != nil {
		common.Fail(c, "Failed to send friend request", err)
		return
	}
	common.Created(c, fr)
}

// ListFriendRequests handles GET /api/v1/friend-requests (pending, received)
// @Summary 받은 친구 요청 목록
// @Tags friend-requests
// @Produce json
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /friend-requests [get]
func (h *ContactHandler) ListFriendRequests(c *gin.Context) {
	requests, err := h.service.ListPendingRequests(middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, "Failed to load friend requests", err)
		return
	}
	common.Success(c, requests)
}

// RespondFriendRequest handles POST /api/v1/friend-requests/:id/respond
// @Summary 친구 요청 응답
// @Tags friend-requests
// @Accept json
// @Produce json
// @Param id path string true "친구 요청 ID"
// @Param request body handler.RespondRequest true "요청 본문"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /friend-requests/{id}/respond [post]
func (h *ContactHandler) RespondFriendRequest(c *gin.Context) {
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	fr, err := h.service.RespondToFriendRequest(c.Param("id"), middleware.GetUserID(c), *req.Accept)
	if err != nil {
		common.Fail(c, "Failed to answer friend request", err)
		return
	}
	common.Success(c, fr)
}
