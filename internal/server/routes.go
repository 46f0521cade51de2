package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRoutes() {
	gin.SetMode(s.ginMode)
	s.router = gin.New()

	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.corsMiddleware())
	s.router.Use(s.maxBodySizeMiddleware())
	s.router.Use(s.rateLimitMiddleware())

	// Public routes (no auth)
	s.router.GET("/health", s.healthCheck)

	// Admin API routes (auth required)
	api := s.router.Group("/api")
	api.Use(s.authenticateClient)
	{
		api.GET("/accounts", s.listAccounts)
		api.GET("/accounts/stats", s.accountStats)
		api.POST("/accounts/batch", s.batchAddAccounts)
		api.DELETE("/accounts/:index", s.deleteAccount)
		api.POST("/accounts/:index/toggle", s.toggleAccount)
		api.GET("/stats", s.pushStats)
	}
}
