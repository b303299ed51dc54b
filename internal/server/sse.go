package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mindshelf/internal/platform/events"
)

const (
	sseBuffer    = 64
	sseKeepAlive = 25 * time.Second
)

// GET /api/events
func (s *Server) streamEvents(c *gin.Context) {
	ctx := c.Request.Context()
	ch := make(chan events.Event, sseBuffer)
	err := s.bus.StartForwarder(ctx, func(e events.Event) {
		select {
		case ch <- e:
		default:
			s.log.Warn("sse client too slow, dropping event", "type", e.Type)
		}
	})
	if err != nil {
		s.log.Error("subscribe to events", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": gin.H{"message": err.Error(), "code": "events_unavailable"}})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case e := <-ch:
			c.SSEvent(e.Type, e)
			return true
		case <-ticker.C:
			_, _ = io.WriteString(w, ": keep-alive\n\n")
			return true
		}
	})
}
