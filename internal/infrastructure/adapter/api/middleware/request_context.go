package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
)

// Headers set by the gateway in front of the API
const (
	HeaderRequestID = "X-Request-ID"
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

const (
	requestIDKey = "request_id"
	actorKey     = "actor"
)

// Actor is the authenticated account initiating a request
type Actor struct {
	ID   uint64
	Role entity.Role
}

// RequestID propagates the caller's request id or generates one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// ActorFromHeaders reads the actor identity resolved by the authenticating gateway.
// Requests without a valid actor id proceed anonymously.
func ActorFromHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := strings.TrimSpace(c.GetHeader(HeaderActorID)); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
				c.Set(actorKey, Actor{ID: id, Role: entity.ParseRole(c.GetHeader(HeaderActorRole))})
			}
		}
		c.Next()
	}
}

// GetActor returns the request's actor if one was identified
func GetActor(c *gin.Context) (Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}
