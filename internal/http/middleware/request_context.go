package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/partvault-backend/internal/pkg/ctxutil"
)

const (
	headerActorID   = "X-Actor-ID"
	headerRequestID = "X-Request-Id"
)

// AttachRequestContext resolves the acting user and request id from headers.
// Authentication lives in front of this service; an absent or malformed actor
// header simply leaves ActorID nil and the aggregates reject the write.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}

		var actorID uuid.UUID
		if raw := strings.TrimSpace(c.GetHeader(headerActorID)); raw != "" {
			if parsed, err := uuid.Parse(raw); err == nil {
				actorID = parsed
			}
		}

		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			ActorID:   actorID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}
