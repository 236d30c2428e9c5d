package handler

import (
	"net/http"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/middleware"
	"github.com/chatfusion/chatfusion-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ChannelHandler broadcast channel endpoints
type ChannelHandler struct {
	service service.ChannelService
}

// NewChannelHandler creates a new ChannelHandler
func NewChannelHandler(service service.ChannelService) *ChannelHandler {
	return &ChannelHandler{service: service}
}

// Create handles POST /api/v1/channels
// @Summary 채널 생성
// @Tags channels
// @Accept json
// @Produce json
// @Param request body service.CreateChannelRequest true "요청 본문"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /channels [post]
func (h *ChannelHandler) Create(c *gin.Context) {
	var req service.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ch, err := h.service.CreateChannel(middleware.GetUserID(c), &req)
	if err != nil {
		common.Fail(c, "Failed to create channel", err)
		return
	}
	common.Created(c, ch)
}

// ListPublic handles GET /api/v1/channels
// @Summary 공개 채널 목록
// @Tags channels
// @Produce json
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /channels [get]
func (h *ChannelHandler) ListPublic(c *gin.Context) {
	channels, err := h.service.ListPublicChannels()
	if err != nil {
		common.Fail(c, "Failed to load channels", err)
		return
	}
	common.Success(c, channels)
}

// Mine handles GET /api/v1/channels/mine
// @Summary 구독 중인 채널 목록
// @Tags channels
// @Produce json
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /channels/mine [get]
func (h *ChannelHandler) Mine(c *gin.Context) {
	channels, err := h.service.GetUserChannels(middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, "Failed to load channels", err)
		return
	}
	common.Success(c, channels)
}

// Subscribe handles POST /api/v1/channels/:id/subscribe
// @Summary 채널 구독
// @Tags channels
// @Produce json
// @Param id path string true "채널 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /channels/{id}/subscribe [post]
func (h *ChannelHandler) Subscribe(c *gin.Context) {
	ch, err := h.service.Subscribe(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, "Failed to subscribe", err)
		return
	}
	common.Success(c, ch)
}

// Unsubscribe handles DELETE /api/v1/channels/:id/subscribe
// @Summary 채널 구독 해제
// @Tags channels
// @Produce json
// @Param id path string true "채널 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /channels/{id}/subscribe [delete]
func (h *ChannelHandler) Unsubscribe(c *gin.Context) {
	ch, err := h.service.Unsubscribe(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, "Failed to unsubscribe", err)
		return
	}
	common.Success(c, ch)
}
