package handler

import (
	"net/http"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/middleware"
	"github.com/chatfusion/chatfusion-backend/internal/service"
	"github.com/chatfusion/chatfusion-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// MessageHandler handles chat message HTTP requests
type MessageHandler struct {
	service service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service service.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// EditMessageRequest body of PUT /messages/:id
type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ReactionRequest body of the reaction toggles
type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// SendMessage handles POST /api/v1/messages
// @Summary 메시지 전송
// @Tags messages
// @Accept json
// @Produce json
// @Param request body service.SendMessageRequest true "요청 본문"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	msg, err := h.service.SendMessage(middleware.GetUserID(c), &req)
	if err != nil {
		common.Fail(c, "Failed to send message", err)
		return
	}
	common.Created(c, msg)
}

// GetDirect handles GET /api/v1/messages/direct/:peer_id?limit=
// @Summary 1:1 대화 조회
// @Tags messages
// @Produce json
// @Param peer_id path string true "상대 사용자 ID"
// @Param limit query int false "최대 건수"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /messages/direct/{peer_id} [get]
func (h *MessageHandler) GetDirect(c *gin.Context) {
	limit := ginutil.QueryLimit(c, service.DefaultMessageLimit, service.MaxMessageLimit)
	messages, err := h.service.GetDirectMessages(middleware.GetUserID(c), c.Param("peer_id"), limit)
	if err != nil {
		common.Fail(c, "Failed to load conversation", err)
		return
	}
	common.Success(c, messages)
}

// GetGroup handles GET /api/v1/messages/group/:group_id?limit=
// @Summary 그룹 대화 조회
// @Tags messages
// @Produce json
// @Param group_id path string true "그룹 ID"
// @Param limit query int false "최대 건수"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /messages/group/{group_id} [get]
func (h *MessageHandler) GetGroup(c *gin.Context) {
	limit := ginutil.QueryLimit(c, service.DefaultMessageLimit, service.MaxMessageLimit)
	messages, err := h.service.GetGroupMessages(middleware.GetUserID(c), c.Param("group_id"), limit)
	if err != nil {
		common.Fail(c, "Failed to load group messages", err)
		return
	}
	common.Success(c, messages)
}

// Edit handles PUT /api/v1/messages/:id
// @Summary 메시지 수정
// @Tags messages
// @Accept json
// @Produce json
// @Param id path string true "메시지 ID"
// @Param request body handler.EditMessageRequest true "요청 본문"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /messages/{id} [put]
func (h *MessageHandler) Edit(c *gin.Context) {
	var req EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	msg, err := h.service.EditMessage(c.Param("id"), middleware.GetUserID(c), req.Content)
	if err != nil {
		common.Fail(c, "Failed to edit message", err)
		return
	}
	common.Success(c, msg)
}

// Delete handles DELETE /api/v1/messages/:id
// @Summary 메시지 삭제
// @Tags messages
// @Produce json
// @Param id path string true "메시지 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /messages/{id} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	if err := h.service.SoftDeleteMessage(c.Param("id"), middleware.GetUserID(c)); err != nil {
		common.Fail(c, "Failed to delete message", err)
		return
	}
	common.Success(c, gin.H{"deleted": true})
}

// React handles POST /api/v1/messages/:id/reactions
// @Summary 메시지 리액션 토글
// @Tags messages
// @Accept json
// @Produce json
// @Param id path string true "메시지 ID"
// @Param request body handler.ReactionRequest true "요청 본문"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /messages/{id}/reactions [post]
func (h *MessageHandler) React(c *gin.Context) {
	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	reactions, err := h.service.ToggleReaction(c.Param("id"), req.Emoji, middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, "Failed to react", err)
		return
	}
	common.Success(c, reactions)
}

// MarkDelivered handles POST /api/v1/messages/:id/delivered
// @Summary 메시지 수신 확인
// @Tags messages
// @Produce json
// @Param id path string true "메시지 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /messages/{id}/delivered [post]
func (h *MessageHandler) MarkDelivered(c *gin.Context) {
	if err := h.service.MarkDelivered(c.Param("id"), middleware.GetUserID(c)); err != nil {
		common.Fail(c, "Failed to update message status", err)
		return
	}
	common.Success(c, gin.H{"status": "delivered"})
}

// MarkRead handles POST /api/v1/messages/:id/read
// @Summary 메시지 읽음 처리
// @Tags messages
// @Produce json
// @Param id path string true "메시지 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /messages/{id}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Param("id"), middleware.GetUserID(c)); err != nil {
		common.Fail(c, "Failed to update message status", err)
		return
	}
	common.Success(c, gin.H{"status": "read"})
}

// MarkConversationRead handles POST /api/v1/messages/direct/:peer_id/read
// @Summary 대화 전체 읽음 처리
// @Tags messages
// @Produce json
// @Param peer_id path string true "상대 사용자 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /messages/direct/{peer_id}/read [post]
func (h *MessageHandler) MarkConversationRead(c *gin.Context) {
	n, err := h.service.MarkConversationRead(middleware.GetUserID(c), c.Param("peer_id"))
	if err != nil {
		common.Fail(c, "Failed to mark conversation read", err)
		return
	}
	common.Success(c, gin.H{"updated": n})
}
