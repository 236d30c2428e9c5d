package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/config"
	"github.com/chatfusion/chatfusion-backend/internal/database"
	"github.com/chatfusion/chatfusion-backend/internal/handler"
	"github.com/chatfusion/chatfusion-backend/internal/middleware"
	"github.com/chatfusion/chatfusion-backend/internal/migration"
	"github.com/chatfusion/chatfusion-backend/internal/presence"
	"github.com/chatfusion/chatfusion-backend/internal/repository"
	"github.com/chatfusion/chatfusion-backend/internal/routes"
	"github.com/chatfusion/chatfusion-backend/internal/scheduler"
	"github.com/chatfusion/chatfusion-backend/internal/service"
	"github.com/chatfusion/chatfusion-backend/internal/ws"
	"github.com/chatfusion/chatfusion-backend/pkg/auth"
	pkgcache "github.com/chatfusion/chatfusion-backend/pkg/cache"
	"github.com/chatfusion/chatfusion-backend/pkg/jwt"
	pkglogger "github.com/chatfusion/chatfusion-backend/pkg/logger"
	pkgredis "github.com/chatfusion/chatfusion-backend/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	gormlogger "gorm.io/gorm/logger"
)

// @title           ChatFusion Backend API
// @version         1.0
// @description     Messaging, contacts, groups, stories and channels
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

func main() {
	dotenvFiles := config.LoadDotEnv()

	// 로거 초기화
	env := config.Env()
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	// 설정 로드
	configPath := config.ConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.UsingDefaultSecret() {
		pkglogger.Warn("CHAT_JWT_SECRET is not set; using the built-in signing secret. Do not run like this in production.")
	}

	db, err := database.Open(cfg.Database, gormlogger.Warn)
	if err != nil {
		log.Fatalf("Failed to open %s database: %v", cfg.Database.Driver, err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Schema migration failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	pkglogger.Info("Database ready (%s)", cfg.Database.Driver)

	// Redis (선택)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis at %s", cfg.Redis.Addr)
		}
	}

	var store interface {
		presence.Store
		presence.TypingStore
	}
	if redisClient != nil {
		store = presence.NewRedisStore(redisClient, cfg.Presence.TypingTTL)
	} else {
		store = presence.NewMemoryStore()
	}
	profileCache := pkgcache.NewService(redisClient)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	contactRepo := repository.NewContactRepository(db)
	requestRepo := repository.NewFriendRequestRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	channelRepo := repository.NewChannelRepository(db)

	// WebSocket Hub
	wsHub := ws.NewHub(redisClient, pkglogger.WithComponent("ws"))

	// Services
	presenceSvc := service.NewPresenceService(
		store, presence.NewTyping(store, cfg.Presence.TypingTTL),
		userRepo, contactRepo, groupRepo, wsHub,
		cfg.Presence.TTL, pkglogger.WithComponent("presence"),
	)
	jwtManager := jwt.NewManager(cfg.TokenSecret(), cfg.TokenTTL())
	authSvc := service.NewAuthService(userRepo, auth.NewHasher(auth.DefaultParams), jwtManager, presenceSvc, profileCache, pkglogger.WithComponent("auth"))
	messageSvc := service.NewMessageService(messageRepo, userRepo, groupRepo, contactRepo, wsHub)
	contactSvc := service.NewContactService(contactRepo, requestRepo, userRepo, wsHub)
	groupSvc := service.NewGroupService(groupRepo, userRepo)
	storySvc := service.NewStoryService(storyRepo)
	channelSvc := service.NewChannelService(channelRepo)

	wsHub.SetHooks(wsHooks(presenceSvc))
	go wsHub.Run()

	// 주기 작업
	sched := scheduler.New(pkglogger.WithComponent("scheduler"), time.Second)
	sched.Register("presence_sweep", cfg.Presence.SweepInterval, func(time.Time) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, err := presenceSvc.Sweep(ctx)
		return err
	})
	sched.Register("db_stats", 15*time.Second, func(time.Time) error {
		middleware.SetDBPoolStats(sqlDB.Stats())
		return nil
	})
	sched.Start()

	// Router
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(cfg.CORS.AllowOrigins),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	routes.Setup(router, &routes.Handlers{
		Health:   handler.NewHealthHandler(db),
		Auth:     handler.NewAuthHandler(authSvc),
		User:     handler.NewUserHandler(authSvc),
		Message:  handler.NewMessageHandler(messageSvc),
		Contact:  handler.NewContactHandler(contactSvc),
		Group:    handler.NewGroupHandler(groupSvc),
		Story:    handler.NewStoryHandler(storySvc),
		Channel:  handler.NewChannelHandler(channelSvc),
		Presence: handler.NewPresenceHandler(presenceSvc),
		WS:       handler.NewWSHandler(wsHub, cfg.CORS.AllowOrigins),
	}, authSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	pkglogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.Error("HTTP shutdown: %v", err)
	}
	sched.Stop()
	wsHub.Stop()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	_ = sqlDB.Close()
}

// wsHooks ties socket lifecycle and inbound frames to presence
func wsHooks(presenceSvc service.PresenceService) ws.Hooks {
	log := pkglogger.WithComponent("ws")
	return ws.Hooks{
		OnConnect: func(userID string) {
			if err := presenceSvc.Touch(context.Background(), userID); err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("presence touch on connect failed")
			}
		},
		OnDisconnect: func(userID string, last bool) {
			if !last {
				return
			}
			if err := presenceSvc.Forget(context.Background(), userID); err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("presence forget on disconnect failed")
			}
		},
		OnFrame: func(userID string, frame ws.Frame) {
			ctx := context.Background()
			var err error
			switch frame.Type {
			case "typing":
				err = presenceSvc.StartTyping(ctx, userID, frame.To)
			case "heartbeat":
				err = presenceSvc.Touch(ctx, userID)
			default:
				return
			}
			if err != nil {
				log.Debug().Err(err).Str("user_id", userID).Str("frame", frame.Type).Msg("ws frame rejected")
			}
		},
	}
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
