package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"antigravity2newapi/internal/account"
	"antigravity2newapi/internal/core"
	"antigravity2newapi/internal/metrics"

	"github.com/gin-gonic/gin"
)

type toggleRequest struct {
	Enable *bool `json:"enable"`
}

type batchRequest struct {
	Text string `json:"text"`
}

func respondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// respondWithAccountError maps account errors to status codes
func (s *Server) respondWithAccountError(c *gin.Context, err error) {
	if errors.Is(err, account.ErrInvalidIndex) {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	s.config.Logger.Error("Account operation failed (request %s): %v", c.GetString(requestIDKey), err)
	respondWithError(c, http.StatusInternalServerError, "internal server error")
}

func parseIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, account.ErrInvalidIndex.Error())
		return 0, false
	}
	return index, true
}

func (s *Server) listAccounts(c *gin.Context) {
	accounts, err := s.accountManager.List()
	if err != nil {
		s.respondWithAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "accounts": accounts, "total": len(accounts)})
}

func (s *Server) accountStats(c *gin.Context) {
	stats, err := s.accountManager.Stats()
	if err != nil {
		s.respondWithAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) deleteAccount(c *gin.Context) {
	index, ok := parseIndex(c)
	if !ok {
		return
	}
	if err := s.accountManager.Delete(index); err != nil {
		s.respondWithAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "账号已删除"})
}

func (s *Server) toggleAccount(c *gin.Context) {
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enable == nil {
		respondWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.accountManager.Toggle(index, *req.Enable); err != nil {
		s.respondWithAccountError(c, err)
		return
	}

	message := "账号已禁用"
	if *req.Enable {
		message = "账号已启用"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func (s *Server) batchAddAccounts(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		respondWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.accountManager.AddAndPush(c.Request.Context(), req.Text, s.pusher)
	if err != nil {
		s.respondWithAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"added":        result.Added,
		"skipped":      result.Skipped,
		"uploaded":     result.Uploaded,
		"uploadFailed": result.UploadFailed,
		"message":      result.Message,
	})
}

func (s *Server) pushStats(c *gin.Context) {
	stats := s.metricsService.GetPushStats()
	periodStats := metrics.GetPeriodStats(stats.PushHistory, 24, 24*7, 24*30)

	accountStats, err := s.accountManager.Stats()
	if err != nil {
		s.respondWithAccountError(c, err)
		return
	}

	lastPush := ""
	if !stats.LastPushTime.IsZero() {
		lastPush = stats.LastPushTime.Format(core.TimeFormatDateTime)
	}

	c.JSON(http.StatusOK, gin.H{
		"currentTime":      time.Now().Format(core.TimeFormatDateTime),
		"pushEnabled":      s.pusher != nil,
		"accounts":         accountStats,
		"totalPushes":      stats.TotalPushes,
		"successfulPushes": stats.SuccessfulPushes,
		"failedPushes":     stats.FailedPushes,
		"lastPushTime":     lastPush,
		"totalRecords":     len(stats.PushHistory),
		"stats24h":         periodStats[24],
		"stats7d":          periodStats[24*7],
		"stats30d":         periodStats[24*30],
	})
}
