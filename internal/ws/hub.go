package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/AlvinAbiero/online-marketplace/internal/fanout"
)

// Hub maintains the set of active clients, routes direct pushes to a
// user's connections and tracks order-room membership. It is also a
// fanout sink, so everything published on the bus reaches socket clients
// without a second publish call.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Map to quickly find clients by UserID (critical for direct messaging)
	userClients map[uint][]*Client

	// Clients listening for updates on a given order.
	orderRooms map[uint]map[*Client]bool

	// Mutex to protect the clients, userClients and orderRooms maps
	mutex sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		clients:     make(map[*Client]bool),
		userClients: make(map[uint][]*Client),
		orderRooms:  make(map[uint]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		}
	}
}

// add registers a client under its user id. Several simultaneous
// connections per user are tracked, so presence survives a second tab.
func (h *Hub) add(client *Client) {
	h.mutex.Lock()
	h.clients[client] = true
	h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
	count := len(h.userClients[client.UserID])
	h.mutex.Unlock()

	log.Printf("User %d connected. Total connections for user: %d", client.UserID, count)
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		h.evictLocked(client)
	}
}

// evictLocked removes the client from every map and closes its Send
// channel. Callers must hold h.mutex. Every send path looks the client
// up in these maps under the same mutex, so once evicted the channel
// can never be sent to again and the close happens exactly once.
func (h *Hub) evictLocked(client *Client) {
	delete(h.clients, client)
	close(client.Send)

	userConns := h.userClients[client.UserID]
	for i, conn := range userConns {
		if conn == client {
			h.userClients[client.UserID] = append(userConns[:i], userConns[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
		log.Printf("User %d disconnected (Offline)", client.UserID)
	}

	for orderID, room := range h.orderRooms {
		if room[client] {
			delete(room, client)
			if len(room) == 0 {
				delete(h.orderRooms, orderID)
			}
		}
	}
}

// JoinOrderRoom subscribes the client to order_updated pushes for one order.
func (h *Hub) JoinOrderRoom(client *Client, orderID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.orderRooms[orderID] == nil {
		h.orderRooms[orderID] = make(map[*Client]bool)
	}
	h.orderRooms[orderID][client] = true
}

func (h *Hub) LeaveOrderRoom(client *Client, orderID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if room, ok := h.orderRooms[orderID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.orderRooms, orderID)
		}
	}
}

// SendToUser sends a message to a specific user (all their active
// connections). A client whose buffer is full is evicted; its write
// pump sees the closed channel, sends a close frame and tears the
// connection down.
func (h *Hub) SendToUser(userID uint, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	// evictLocked rewrites the slice in place, so iterate a copy.
	clients := append([]*Client(nil), h.userClients[userID]...)
	for _, client := range clients {
		select {
		case client.Send <- message:
		default:
			h.evictLocked(client)
		}
	}
}

// SendToOrderRoom pushes a message to every client in the order's room.
func (h *Hub) SendToOrderRoom(orderID uint, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.orderRooms[orderID] {
		select {
		case client.Send <- message:
		default:
			h.evictLocked(client)
		}
	}
}

// IsUserOnline checks if a user has any active WebSocket connection (in-memory check)
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients, ok := h.userClients[userID]
	return ok && len(clients) > 0
}

// Deliver implements fanout.Sink: bus events become socket pushes.
func (h *Hub) Deliver(event fanout.Event) {
	switch event.Kind {
	case fanout.MessageAdded:
		payload, err := json.Marshal(map[string]interface{}{
			"type":    "new_message",
			"message": event.Payload,
		})
		if err != nil {
			log.Printf("Error marshalling new_message event: %v", err)
			return
		}
		h.SendToUser(event.ReceiverID, payload)

	case fanout.OrderStatusUpdated:
		payload, err := json.Marshal(map[string]interface{}{
			"type":  "order_updated",
			"order": event.Payload,
		})
		if err != nil {
			log.Printf("Error marshalling order_updated event: %v", err)
			return
		}
		h.SendToOrderRoom(event.OrderID, payload)
	}
}
