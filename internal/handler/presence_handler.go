package handler

import (
	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/middleware"
	"github.com/chatfusion/chatfusion-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// PresenceHandler presence and typing endpoints
type PresenceHandler struct {
	service service.PresenceService
}

// NewPresenceHandler creates a new PresenceHandler
func NewPresenceHandler(service service.PresenceService) *PresenceHandler {
	return &PresenceHandler{service: service}
}

// Get handles GET /api/v1/presence/:user_id
// @Summary 접속 상태 조회
// @Tags presence
// @Produce json
// @Param user_id path string true "사용자 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /presence/{user_id} [get]
func (h *PresenceHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		common.Fail(c, "Failed to load presence", err)
		return
	}
	common.Success(c, view)
}

// Typers handles GET /api/v1/typing/:target_id
// @Summary 입력 중인 사용자 조회
// @Tags presence
// @Produce json
// @Param target_id path string true "사용자 또는 그룹 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /typing/{target_id} [get]
func (h *PresenceHandler) Typers(c *gin.Context) {
	typers, err := h.service.Typers(c.Request.Context(), middleware.GetUserID(c), c.Param("target_id"))
	if err != nil {
		common.Fail(c, "Failed to load typing state", err)
		return
	}
	common.Success(c, gin.H{"typers": typers})
}

// StartTyping handles POST /api/v1/typing/:target_id, for clients without a socket
// @Summary 입력 중 표시
// @Tags presence
// @Produce json
// @Param target_id path string true "사용자 또는 그룹 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /typing/{target_id}, [post]
func (h *PresenceHandler) StartTyping(c *gin.Context) {
	if err := h.service.StartTyping(c.Request.Context(), middleware.GetUserID(c), c.Param("target_id")); err != nil {
		common.Fail(c, "Failed to record typing", err)
		return
	}
	common.Success(c, gin.H{"typing": true})
}

// Heartbeat handles POST /api/v1/presence/heartbeat
// @Summary 접속 유지
// @Tags presence
// @Produce json
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /presence/heartbeat [post]
func (h *PresenceHandler) Heartbeat(c *gin.Context) {
	if err := h.service.Touch(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		common.Fail(c, "Failed to record activity", err)
		return
	}
	common.Success(c, gin.H{"online": true})
}
