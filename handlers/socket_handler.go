package handlers

import (
	"log"

	"github.com/AlvinAbiero/online-marketplace/internal/marketplace"
	"github.com/AlvinAbiero/online-marketplace/internal/ws"
	"github.com/AlvinAbiero/online-marketplace/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// SocketHandler owns the realtime event channel. Authentication is a
// handshake-time credential: the token travels in the upgrade request
// (query param or Authorization header), not per-event.
type SocketHandler struct {
	Hub *ws.Hub
	Svc *marketplace.Service
}

func NewSocketHandler(hub *ws.Hub, svc *marketplace.Service) *SocketHandler {
	return &SocketHandler{
		Hub: hub,
		Svc: svc,
	}
}

// UpgradeMiddleware verifies the upgrade and the handshake credential.
// Unlike the HTTP surface, the socket channel has no anonymous mode.
func (h *SocketHandler) UpgradeMiddleware(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		token = utils.ExtractTokenFromHeader(c.Get("Authorization"))
	}
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing credential")
	}

	userID, err := utils.VerifyToken(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credential")
	}

	user, err := h.Svc.GetUser(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unknown user")
	}

	c.Locals("user_id", user.ID)
	c.Locals("role", user.Role)
	return c.Next()
}

// Handler returns the websocket handler function
func (h *SocketHandler) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID, ok := c.Locals("user_id").(uint)
		if !ok || userID == 0 {
			log.Println("Invalid or missing User ID in WebSocket connection")
			c.Close()
			return
		}
		role, _ := c.Locals("role").(string)

		client := &ws.Client{
			Hub:    h.Hub,
			Conn:   c,
			Send:   make(chan []byte, 256),
			UserID: userID,
			Role:   role,
			Svc:    h.Svc,
		}

		client.Hub.Register <- client

		// Start Pumps
		go client.WritePump()
		client.ReadPump()
	})
}
