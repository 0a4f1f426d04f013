package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/AlvinAbiero/online-marketplace/internal/marketplace"

	"github.com/gofiber/contrib/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096 // 4KB
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan []byte

	// Identity derived from the handshake credential.
	UserID uint
	Role   string

	// Shared business-logic layer; the socket channel is a thin adapter
	// over the same operations the GraphQL resolvers call.
	Svc *marketplace.Service
}

// WSEvent is the envelope for inbound socket events.
type WSEvent struct {
	Type       string `json:"type"` // send_message, typing, stop_typing, join_order_room, leave_order_room
	ReceiverID uint   `json:"receiver_id,omitempty"`
	Content    string `json:"content,omitempty"`
	OrderID    uint   `json:"order_id,omitempty"`
}

func (c *Client) principal() *marketplace.Principal {
	return &marketplace.Principal{UserID: c.UserID, Role: c.Role}
}

// ReadPump pumps messages from the websocket connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		c.handleEvent(message)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleEvent(raw []byte) {
	var event WSEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		c.sendError(marketplace.CodeValidation, "malformed event")
		return
	}

	switch event.Type {
	case "send_message":
		c.processSendMessage(&event)

	case "typing":
		c.relayTyping(event.ReceiverID, true)

	case "stop_typing":
		c.relayTyping(event.ReceiverID, false)

	case "join_order_room":
		if event.OrderID == 0 {
			c.sendError(marketplace.CodeValidation, "order_id is required")
			return
		}
		// Same participant check the subscription path applies.
		if _, err := c.Svc.GetOrder(c.principal(), event.OrderID); err != nil {
			c.sendError(marketplace.CodeOf(err), err.Error())
			return
		}
		c.Hub.JoinOrderRoom(c, event.OrderID)
		log.Printf("User %d joined order room %d", c.UserID, event.OrderID)

	case "leave_order_room":
		c.Hub.LeaveOrderRoom(c, event.OrderID)
		log.Printf("User %d left order room %d", c.UserID, event.OrderID)

	default:
		c.sendError(marketplace.CodeValidation, "unknown event type")
	}
}

func (c *Client) processSendMessage(event *WSEvent) {
	input := marketplace.MessageInput{
		ReceiverID: event.ReceiverID,
		Content:    event.Content,
	}
	if event.OrderID != 0 {
		orderID := event.OrderID
		input.OrderID = &orderID
	}

	// Delivery to the receiver (new_message on both transports) happens
	// inside SendMessage via the fanout.
	message, err := c.Svc.SendMessage(c.principal(), input)
	if err != nil {
		c.sendError(marketplace.CodeOf(err), err.Error())
		return
	}

	confirmation, _ := json.Marshal(map[string]interface{}{
		"type":    "message_sent",
		"message": message,
	})
	c.trySend(confirmation)
}

// relayTyping forwards a typing indicator without persisting anything.
func (c *Client) relayTyping(receiverID uint, isTyping bool) {
	if receiverID == 0 {
		return
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"type":      "user_typing",
		"user_id":   c.UserID,
		"is_typing": isTyping,
	})
	c.Hub.SendToUser(receiverID, payload)
}

func (c *Client) sendError(code, message string) {
	payload, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"code":    code,
		"message": message,
	})
	c.trySend(payload)
}

func (c *Client) trySend(payload []byte) {
	select {
	case c.Send <- payload:
	default:
	}
}
