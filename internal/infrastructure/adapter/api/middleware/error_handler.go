package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/dto"
)

const panicReplyKey = "panic_reply"

// PanicReply writes the response for a request whose handler panicked
type PanicReply func(c *gin.Context)

// ReplyOnPanic replaces the JSON 500 written by ErrorHandler for the routes below
// it. Protocols that must always answer in their own envelope install one.
func ReplyOnPanic(reply PanicReply) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(panicReplyKey, reply)
		c.Next()
	}
}

// ErrorHandler recovers handler panics. The panic is logged with the route and
// actor, recorded on the context as ErrInternalServer, and answered with a 500
// unless the handler already started the response.
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// net/http uses this to drop the connection silently
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			fields := map[string]any{
				"panic":      fmt.Sprint(rec),
				"method":     c.Request.Method,
				"route":      c.FullPath(),
				"request_id": GetRequestID(c),
				"stack":      string(debug.Stack()),
			}
			if actor, ok := GetActor(c); ok {
				fields["actor_id"] = actor.ID
				fields["actor_role"] = string(actor.Role)
			}
			_ = c.Error(fmt.Errorf("%w: panic: %v", domainerr.ErrInternalServer, rec))

			if c.Writer.Written() {
				fields["response_started"] = true
				logger.Error("Panic recovered in API request", fields)
				c.Abort()
				return
			}
			logger.Error("Panic recovered in API request", fields)

			if v, ok := c.Get(panicReplyKey); ok {
				if reply, ok := v.(PanicReply); ok {
					c.Abort()
					reply(c)
					return
				}
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInternalServer),
				Message: "Internal server error",
			})
		}()

		c.Next()
	}
}
