package graphql

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/AlvinAbiero/online-marketplace/internal/marketplace"
	"github.com/AlvinAbiero/online-marketplace/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// wsMessage follows the graphql-transport-ws framing: connection_init /
// connection_ack for the handshake, then subscribe / next / error /
// complete per operation.
type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type initPayload struct {
	Token string `json:"token"`
}

// SubscriptionUpgrade rejects plain HTTP requests to the subscription
// endpoint before the websocket handler runs.
func SubscriptionUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// SubscriptionHandler serves GraphQL subscriptions over a websocket.
// Authentication happens once at connection_init; every operation on the
// connection runs as that principal.
func SubscriptionHandler(schema graphql.Schema, svc *marketplace.Service) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		principal, ok := handshake(conn, svc)
		if !ok {
			conn.Close()
			return
		}

		ctx, cancelAll := context.WithCancel(context.Background())
		ctx = WithPrincipal(ctx, principal)
		defer cancelAll()

		var mu sync.Mutex // serializes writes to the connection
		cancels := make(map[string]context.CancelFunc)

		write := func(msg wsMessage) {
			mu.Lock()
			defer mu.Unlock()
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("subscription write error: %v", err)
			}
		}

		for {
			var msg wsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}

			switch msg.Type {
			case "subscribe":
				var req Request
				if err := json.Unmarshal(msg.Payload, &req); err != nil {
					write(wsMessage{ID: msg.ID, Type: "error",
						Payload: errorPayload("invalid subscribe payload")})
					continue
				}

				opCtx, cancel := context.WithCancel(ctx)
				cancels[msg.ID] = cancel

				results := graphql.Subscribe(graphql.Params{
					Schema:         schema,
					RequestString:  req.Query,
					OperationName:  req.OperationName,
					VariableValues: req.Variables,
					Context:        opCtx,
				})

				go func(id string) {
					for result := range results {
						payload, err := json.Marshal(result)
						if err != nil {
							continue
						}
						write(wsMessage{ID: id, Type: "next", Payload: payload})
					}
					write(wsMessage{ID: id, Type: "complete"})
				}(msg.ID)

			case "complete":
				if cancel, ok := cancels[msg.ID]; ok {
					cancel()
					delete(cancels, msg.ID)
				}

			case "ping":
				write(wsMessage{Type: "pong"})
			}
		}
	})
}

// handshake waits for connection_init, verifies the credential and acks.
func handshake(conn *websocket.Conn, svc *marketplace.Service) (*marketplace.Principal, bool) {
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != "connection_init" {
		return nil, false
	}

	var init initPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &init); err != nil {
			return nil, false
		}
	}

	var principal *marketplace.Principal
	if init.Token != "" {
		userID, err := utils.VerifyToken(init.Token)
		if err != nil {
			return nil, false
		}
		user, err := svc.GetUser(userID)
		if err != nil {
			return nil, false
		}
		principal = &marketplace.Principal{UserID: user.ID, Role: user.Role}
	}

	if err := conn.WriteJSON(wsMessage{Type: "connection_ack"}); err != nil {
		return nil, false
	}

	return principal, true
}

func errorPayload(message string) json.RawMessage {
	payload, _ := json.Marshal([]map[string]string{{"message": message}})
	return payload
}
