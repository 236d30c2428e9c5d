package routes

import (
	"github.com/chatfusion/chatfusion-backend/internal/handler"
	"github.com/chatfusion/chatfusion-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers every HTTP handler the API exposes
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Message  *handler.MessageHandler
	Contact  *handler.ContactHandler
	Group    *handler.GroupHandler
	Story    *handler.StoryHandler
	Channel  *handler.ChannelHandler
	Presence *handler.PresenceHandler
	WS       *handler.WSHandler
}

// Setup configures all API routes
func Setup(router *gin.Engine, h *Handlers, verifier middleware.SessionVerifier) {
	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	auth := middleware.JWTAuth(verifier)

	// Authentication (register/login are public)
	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/logout", auth, h.Auth.Logout)
	authGroup.GET("/me", auth, h.Auth.Me)

	users := api.Group("/users", auth)
	users.PUT("/me", h.User.UpdateProfile)
	users.PUT("/me/status", h.User.SetStatus)
	users.GET("/:id", h.User.GetProfile)

	messages := api.Group("/messages", auth)
	messages.POST("", h.Message.SendMessage)
	messages.GET("/direct/:peer_id", h.Message.GetDirect)
	messages.POST("/direct/:peer_id/read", h.Message.MarkConversationRead)
	messages.GET("/group/:group_id", h.Message.GetGroup)
	messages.PUT("/:id", h.Message.Edit)
	messages.DELETE("/:id", h.Message.Delete)
	messages.POST("/:id/reactions", h.Message.React)
	messages.POST("/:id/delivered", h.Message.MarkDelivered)
	messages.POST("/:id/read", h.Message.MarkRead)

	contacts := api.Group("/contacts", auth)
	contacts.GET("", h.Contact.List)
	contacts.POST("", h.Contact.Add)
	contacts.POST("/:contact_id/block", h.Contact.Block)
	contacts.DELETE("/:contact_id/block", h.Contact.Unblock)
	contacts.PUT("/:contact_id/favorite", h.Contact.SetFavorite)
	contacts.PUT("/:contact_id/nickname", h.Contact.SetNickname)

	friendRequests := api.Group("/friend-requests", auth)
	friendRequests.POST("", h.Contact.SendFriendRequest)
	friendRequests.GET("", h.Contact.ListFriendRequests)
	friendRequests.POST("/:id/respond", h.Contact.RespondFriendRequest)

	groups := api.Group("/groups", auth)
	groups.POST("", h.Group.Create)
	groups.GET("", h.Group.List)
	groups.GET("/:id", h.Group.Get)
	groups.POST("/:id/members", h.Group.AddMember)
	groups.DELETE("/:id/members/:user_id", h.Group.RemoveMember)
	groups.POST("/:id/admins", h.Group.PromoteAdmin)

	stories := api.Group("/stories", auth)
	stories.POST("", h.Story.Create)
	stories.GET("", h.Story.List)
	stories.POST("/:id/views", h.Story.View)
	stories.POST("/:id/reactions", h.Story.React)

	channels := api.Group("/channels", auth)
	channels.POST("", h.Channel.Create)
	channels.GET("", h.Channel.ListPublic)
	channels.GET("/mine", h.Channel.Mine)
	channels.POST("/:id/subscribe", h.Channel.Subscribe)
	channels.DELETE("/:id/subscribe", h.Channel.Unsubscribe)

	api.GET("/presence/:user_id", auth, h.Presence.Get)
	api.POST("/presence/heartbeat", auth, h.Presence.Heartbeat)
	api.GET("/typing/:target_id", auth, h.Presence.Typers)
	api.POST("/typing/:target_id", auth, h.Presence.StartTyping)

	// 브라우저 WebSocket 은 헤더를 못 보내므로 ?token= 허용
	if h.WS != nil {
		api.GET("/ws", middleware.QueryTokenAuth(verifier), h.WS.Connect)
	}
}
