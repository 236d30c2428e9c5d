package handler

import (
	"net/http"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/chatfusion/chatfusion-backend/internal/middleware"
	"github.com/chatfusion/chatfusion-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// StoryHandler story endpoints
type StoryHandler struct {
	service service.StoryService
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(service service.StoryService) *StoryHandler {
	return &StoryHandler{service: service}
}

// CreateStoryRequest ttl_minutes 0 keeps the 24h default
type CreateStoryRequest struct {
	Content    string  `json:"content"`
	MediaURL   *string `json:"media_url"`
	TTLMinutes int     `json:"ttl_minutes" binding:"gte=0"`
}

// Create handles POST /api/v1/stories
// @Summary 스토리 등록
// @Tags stories
// @Accept json
// @Produce json
// @Param request body handler.CreateStoryRequest true "요청 본문"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /stories [post]
func (h *StoryHandler) Create(c *gin.Context) {
	var req CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ttl := time.Duration(req.TTLMinutes) * time.Minute
	story, err := h.service.CreateStory(middleware.GetUserID(c), req.Content, req.MediaURL, ttl)
	if err != nil {
		common.Fail(c, "Failed to create story", err)
		return
	}
	common.Created(c, story)
}

// List handles GET /api/v1/stories, optionally ?user_id=
// @Summary 활성 스토리 목록
// @Tags stories
// @Produce json
// @Param user_id query string false "작성자 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /stories, [get]
func (h *StoryHandler) List(c *gin.Context) {
	var (
		stories []*domain.Story
		err     error
	)
	if userID := c.Query("user_id"); userID != "" {
		stories, err = h.service.ListUserStories(userID)
	} else {
		stories, err = h.service.ListActiveStories()
	}
	if err != nil {
		common.Fail(c, "Failed to load stories", err)
		return
	}
	common.Success(c, stories)
}

// View handles POST /api/v1/stories/:id/views
// @Summary 스토리 조회 기록
// @Tags stories
// @Produce json
// @Param id path string true "스토리 ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /stories/{id}/views [post]
func (h *StoryHandler) View(c *gin.Context) {
	story, err := h.service.RecordView(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, "Failed to record view", err)
		return
	}
	common.Success(c, story)
}

// React handles POST /api/v1/stories/:id/reactions
// @Summary 스토리 리액션 토글
// @Tags stories
// @Accept json
// @Produce json
// @Param id path string true "스토리 ID"
// @Param request body handler.ReactionRequest true "요청 본문"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Security BearerAuth
// @Router /stories/{id}/reactions [post]
func (h *StoryHandler) React(c *gin.Context) {
	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	reactions, err := h.service.ToggleStoryReaction(c.Param("id"), req.Emoji, middleware.GetUserID(c))
	if err != nil {
		common.Fail(c, "Failed to react", err)
		return
	}
	common.Success(c, reactions)
}
