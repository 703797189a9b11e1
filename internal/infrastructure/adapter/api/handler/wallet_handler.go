package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/middleware"
)

const maxCallbackBytes = 64 << 10

var errNotAnObject = errors.New("body is not a JSON object")

// CallbackObserver records wallet callback replies
type CallbackObserver interface {
	ObserveCallback(cmd, status, errorCode string)
}

// WalletHandler receives provider wallet callbacks. Every reply is HTTP 200.
type WalletHandler struct {
	wallet   usecase.WalletUseCase
	observer CallbackObserver
	logger   coreport.Logger
}

// NewWalletHandler creates a new wallet handler instance; observer may be nil
func NewWalletHandler(wallet usecase.WalletUseCase, observer CallbackObserver, logger coreport.Logger) *WalletHandler {
	return &WalletHandler{
		wallet:   wallet,
		observer: observer,
		logger:   logger,
	}
}

// Callback handles POST /api/wallet/callback
func (h *WalletHandler) Callback(c *gin.Context) {
	fields, err := callbackFields(c)
	if err != nil {
		h.logger.Warn("Unreadable wallet callback", map[string]any{
			"error":      err.Error(),
			"request_id": middleware.GetRequestID(c),
		})
		h.reply(c, "", usecase.WalletResponse{Status: usecase.WalletStatusFail, Error: usecase.WalletErrBadRequest})
		return
	}

	h.reply(c, fields["cmd"], h.wallet.Handle(c.Request.Context(), fields))
}

// InternalError answers a callback whose handling panicked within the provider protocol
func (h *WalletHandler) InternalError(c *gin.Context) {
	h.reply(c, "", usecase.WalletResponse{Status: usecase.WalletStatusFail, Error: usecase.WalletErrInternal})
}

// RateLimited answers throttled callbacks within the provider protocol
func (h *WalletHandler) RateLimited(c *gin.Context) {
	h.reply(c, "", usecase.WalletResponse{Status: usecase.WalletStatusFail, Error: usecase.WalletErrRateLimited})
}

func (h *WalletHandler) reply(c *gin.Context, cmd string, resp usecase.WalletResponse) {
	if h.observer != nil {
		h.observer.ObserveCallback(cmd, resp.Status, resp.Error)
	}
	c.JSON(http.StatusOK, resp)
}

// callbackFields flattens a JSON object or form body into string fields.
// Numbers keep their literal text so signatures verify over what was sent.
func callbackFields(c *gin.Context) (map[string]string, error) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCallbackBytes))
		if err != nil {
			return nil, err
		}
		root := gjson.ParseBytes(body)
		if !gjson.ValidBytes(body) || !root.IsObject() {
			return nil, errNotAnObject
		}

		fields := make(map[string]string)
		root.ForEach(func(key, value gjson.Result) bool {
			switch value.Type {
			case gjson.Number:
				fields[key.String()] = value.Raw
			case gjson.Null:
				fields[key.String()] = ""
			default:
				fields[key.String()] = value.String()
			}
			return true
		})
		return fields, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCallbackBytes)
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	return fields, nil
}
