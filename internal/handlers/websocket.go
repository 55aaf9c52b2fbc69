package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/mkbpilot/mkb-api/internal/middleware"
	"github.com/mkbpilot/mkb-api/internal/realtime"
	"go.uber.org/zap"
)

// WSHandler streams notification change events to connected dashboard
// sessions. Each connection holds its own feed subscription, released
// when the socket closes.
type WSHandler struct {
	Feed *realtime.Feed
	Log  *zap.Logger
}

func NewWSHandler(feed *realtime.Feed, log *zap.Logger) *WSHandler {
	return &WSHandler{Feed: feed, Log: log}
}

// Upgrade checks the upgrade request and validates the JWT.
func (h *WSHandler) Upgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// Authenticate via query param: ?token=<jwt>
		tokenString := c.Query("token")
		if tokenString == "" {
			// Also check Authorization header for non-browser clients
			authHeader := c.Get("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				tokenString = ""
			}
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		claims, err := middleware.ParseToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userId", claims.UserID)
		return c.Next()
	}
}

// Handle forwards the user's feed events over the socket until the
// client disconnects.
func (h *WSHandler) Handle(c *websocket.Conn) {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	sub, err := h.Feed.Subscribe(context.Background(), userID)
	if err != nil {
		h.Log.Warn("ws feed subscribe failed", zap.String("userId", userID.String()), zap.Error(err))
		c.Close()
		return
	}
	defer sub.Close()

	h.Log.Info("ws connected", zap.String("userId", userID.String()))

	// Writer: feed events out to the client.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range sub.C {
			if err := c.WriteJSON(ev); err != nil {
				return
			}
		}
	}()

	// Reader: keep the connection alive, detect disconnects.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	sub.Close()
	<-done
	h.Log.Info("ws disconnected", zap.String("userId", userID.String()))
}
