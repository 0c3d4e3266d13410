package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/onemorebsmith/stx-clawbot/src/metrics"
	"github.com/onemorebsmith/stx-clawbot/src/model"
	"go.uber.org/zap"
)

const (
	callerKey       = "caller"
	requestIdHeader = "X-Request-Id"
)

func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		metrics.RecordRequest(route, c.Writer.Status(), elapsed)
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", elapsed))
	}
}

// authMiddleware resolves the bearer token into the caller principal
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			fail(c, KindUnauthenticated, "missing bearer token")
			return
		}
		caller, err := s.issuer.Parse(token)
		if err != nil {
			fail(c, KindUnauthenticated, err.Error())
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// dedupeMiddleware rejects a request id the caller already used inside the
// dedupe window. Requests that did not succeed give their id back.
func (s *Server) dedupeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(requestIdHeader)
		if s.deduper == nil || requestId == "" {
			c.Next()
			return
		}
		caller := callerOf(c).String()
		claimed, err := s.deduper.Claim(c.Request.Context(), caller, requestId)
		if err != nil {
			// the dedupe cache is best effort, don't take the ledger down with it
			s.logger.Warn("dedupe unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			metrics.RecordDuplicateRequest(c.FullPath())
			fail(c, KindDuplicateRequest, "request id "+requestId+" was already submitted")
			return
		}
		c.Next()
		if c.Writer.Status() >= 300 {
			if err := s.deduper.Release(c.Request.Context(), caller, requestId); err != nil {
				s.logger.Warn("failed releasing request id", zap.String("request_id", requestId), zap.Error(err))
			}
		}
	}
}

func callerOf(c *gin.Context) model.Principal {
	caller, _ := c.Get(callerKey)
	p, _ := caller.(model.Principal)
	return p
}
