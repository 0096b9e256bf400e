// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visatrack-service/internal/config"
	"visatrack-service/internal/db"
	agentHandler "visatrack-service/internal/handlers/agent"
	authHandler "visatrack-service/internal/handlers/auth"
	clientHandler "visatrack-service/internal/handlers/client"
	dashboardHandler "visatrack-service/internal/handlers/dashboard"
	notifyHandler "visatrack-service/internal/handlers/notification"
	supplierHandler "visatrack-service/internal/handlers/supplier"
	wsHandler "visatrack-service/internal/handlers/websocket"
	"visatrack-service/internal/middleware"
	"visatrack-service/internal/pkg/jwt"
	"visatrack-service/internal/pkg/session"
	"visatrack-service/internal/repository/postgres"
	agentService "visatrack-service/internal/service/agent"
	authService "visatrack-service/internal/service/auth"
	clientService "visatrack-service/internal/service/client"
	dashboardService "visatrack-service/internal/service/dashboard"
	"visatrack-service/internal/service/email"
	"visatrack-service/internal/service/expiry"
	notifyService "visatrack-service/internal/service/notification"
	supplierService "visatrack-service/internal/service/supplier"
	"visatrack-service/internal/websocket"
)

type Server struct {
	cfg       config.AppConfig
	engine    *gin.Engine
	logger    *zap.Logger
	scheduler *expiry.Scheduler
	httpSrv   *http.Server
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{
		cfg:    cfg,
		engine: gin.New(),
		logger: logger,
	}
}

// Start wires every layer and begins serving. Blocks until the listener
// fails or Shutdown is called.
func (s *Server) Start() error {
	ctx := context.Background()

	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	jwtManager, err := jwt.NewManager(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to build JWT manager: %w", err)
	}

	sessionManager := session.NewManager(redisClient, s.cfg.JWT.TTL)
	rateLimiter := session.NewRateLimiter(redisClient)

	sender := email.NewSMTPSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMTPSecure,
	)

	// Repositories
	dbWrapper := postgres.NewDB(pool)
	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	historyRepo := postgres.NewClientHistoryRepository(pool)
	agentRepo := postgres.NewAgentRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	notifyRepo := postgres.NewNotificationRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)

	// Operator feed
	hub := websocket.NewHub(s.logger)
	go hub.Run()

	// Services
	authSvc := authService.NewAuthService(userRepo, jwtManager, sessionManager, rateLimiter, s.logger)
	clientSvc := clientService.NewClientService(clientRepo, historyRepo, userRepo, hub, s.logger)
	agentSvc := agentService.NewAgentService(agentRepo, s.logger)
	supplierSvc := supplierService.NewSupplierService(dbWrapper, supplierRepo, s.logger)
	notifySvc := notifyService.NewNotificationService(notifyRepo, s.logger)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, redisClient, s.logger)

	// Expiry engine
	notifier := expiry.NewNotifier(notifyRepo, sender, s.cfg.NotifyDedupWindow, s.logger)
	archiver := expiry.NewArchiver(dbWrapper, historyRepo, s.logger)
	s.scheduler = expiry.NewScheduler(notifier, archiver, s.cfg.NotifyHour, hub, s.logger)
	s.scheduler.Start()

	if err := authSvc.EnsureAdminExists(ctx, s.cfg.AdminEmail, s.cfg.AdminPassword); err != nil {
		s.logger.Error("failed to bootstrap admin account", zap.Error(err))
	}

	// Handlers
	authH := authHandler.NewAuthHandler(authSvc)
	clientH := clientHandler.NewClientHandler(clientSvc)
	agentH := agentHandler.NewAgentHandler(agentSvc, clientSvc)
	supplierH := supplierHandler.NewSupplierHandler(supplierSvc)
	notifyH := notifyHandler.NewNotificationHandler(notifySvc, s.scheduler, dashboardSvc)
	dashboardH := dashboardHandler.NewDashboardHandler(dashboardSvc)
	wsH := wsHandler.NewWSHandler(hub, s.logger)

	authMW := middleware.NewAuthMiddleware(jwtManager, sessionManager)

	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(),
	)

	s.registerRoutes(authMW, authH, clientH, agentH, supplierH, notifyH, dashboardH, wsH)

	s.httpSrv = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	s.logger.Info("server listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the scheduler and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}
