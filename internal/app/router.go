// internal/app/router.go
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	agentHandler "visatrack-service/internal/handlers/agent"
	authHandler "visatrack-service/internal/handlers/auth"
	clientHandler "visatrack-service/internal/handlers/client"
	dashboardHandler "visatrack-service/internal/handlers/dashboard"
	notifyHandler "visatrack-service/internal/handlers/notification"
	supplierHandler "visatrack-service/internal/handlers/supplier"
	wsHandler "visatrack-service/internal/handlers/websocket"
	"visatrack-service/internal/middleware"
)

func (s *Server) registerRoutes(
	authMW *middleware.AuthMiddleware,
	authH *authHandler.AuthHandler,
	clientH *clientHandler.ClientHandler,
	agentH *agentHandler.AgentHandler,
	supplierH *supplierHandler.SupplierHandler,
	notifyH *notifyHandler.NotificationHandler,
	dashboardH *dashboardHandler.DashboardHandler,
	wsH *wsHandler.WSHandler,
) {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api/v1")

	// Public
	api.POST("/auth/login", authH.Login)

	// Authenticated
	auth := api.Group("", authMW.Auth())
	{
		auth.POST("/auth/logout", authH.Logout)
		auth.GET("/auth/me", authH.Me)
		auth.POST("/auth/change-password", authH.ChangePassword)

		auth.GET("/clients", clientH.ListClients)
		auth.POST("/clients", clientH.CreateClient)
		auth.GET("/clients/:id", clientH.GetClient)
		auth.GET("/clients/uid/:uid", clientH.GetClientByUID)
		auth.PUT("/clients/:id", clientH.UpdateClient)
		auth.DELETE("/clients/:id", clientH.DeleteClient)
		auth.POST("/clients/revert-expiry", clientH.RevertExpiry)

		auth.GET("/history", clientH.ListHistory)
		auth.PATCH("/history/:id/status", clientH.UpdateHistoryStatus)
		auth.DELETE("/history/:id", clientH.DeleteHistory)

		auth.GET("/agents", agentH.ListAgents)
		auth.GET("/agents/search", agentH.SearchAgents)
		auth.POST("/agents", agentH.CreateAgent)
		auth.GET("/agents/:id", agentH.GetAgent)
		auth.GET("/agents/:id/clients", agentH.GetAgentClients)
		auth.PUT("/agents/:id", agentH.UpdateAgent)
		auth.DELETE("/agents/:id", agentH.DeactivateAgent)

		auth.GET("/suppliers", supplierH.ListSuppliers)
		auth.GET("/suppliers/search", supplierH.SearchSuppliers)
		auth.POST("/suppliers", supplierH.CreateSupplier)
		auth.GET("/suppliers/:id", supplierH.GetSupplier)
		auth.PUT("/suppliers/:id", supplierH.UpdateSupplier)
		auth.DELETE("/suppliers/:id", supplierH.DeactivateSupplier)
		auth.POST("/suppliers/reassign", supplierH.ReassignSupplier)

		auth.GET("/notifications/stats", notifyH.GetStats)
		auth.GET("/notifications/failed", notifyH.GetFailed)
		auth.GET("/notifications/clients/:id", notifyH.GetClientHistory)

		auth.GET("/dashboard", dashboardH.GetStats)
		auth.GET("/ws", wsH.Connect)
	}

	// Admin-only: manual engine triggers
	admin := api.Group("", authMW.Auth(), authMW.RequireAdmin())
	{
		admin.POST("/notifications/run", notifyH.TriggerRun)
		admin.POST("/clients/archive-expired", notifyH.TriggerArchive)
	}
}
