package ws

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/AlvinAbiero/online-marketplace/internal/fanout"
	"github.com/AlvinAbiero/online-marketplace/internal/marketplace"
	"github.com/AlvinAbiero/online-marketplace/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *marketplace.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.Message{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return marketplace.NewService(db, nil, fanout.New(), "http://localhost:3000")
}

func registerUser(t *testing.T, svc *marketplace.Service, email, role string) *models.User {
	t.Helper()
	payload, err := svc.Register(marketplace.RegisterInput{
		Email:     email,
		Password:  "secret123",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return payload.User
}

func serviceClient(hub *Hub, svc *marketplace.Service, user *models.User) *Client {
	return &Client{
		Hub:    hub,
		Send:   make(chan []byte, 16),
		UserID: user.ID,
		Role:   user.Role,
		Svc:    svc,
	}
}

func decodeEvent(t *testing.T, client *Client) map[string]interface{} {
	t.Helper()
	select {
	case raw := <-client.Send:
		var envelope map[string]interface{}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Fatalf("bad push payload: %v", err)
		}
		return envelope
	default:
		t.Fatal("no event on the client's channel")
		return nil
	}
}

func TestJoinOrderRoom_RequiresParticipation(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := newTestService(t)

	seller := registerUser(t, svc, "seller@example.com", models.RoleSeller)
	buyer := registerUser(t, svc, "buyer@example.com", models.RoleBuyer)
	stranger := registerUser(t, svc, "stranger@example.com", models.RoleBuyer)

	product, err := svc.CreateProduct(&marketplace.Principal{UserID: seller.ID, Role: seller.Role},
		marketplace.ProductInput{
			Title:       "Wooden Train Set",
			Description: "Hand-carved locomotive with six cars",
			Price:       40,
			Category:    "toys",
			Stock:       3,
		})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	order, err := svc.CreateOrder(&marketplace.Principal{UserID: buyer.ID, Role: buyer.Role},
		marketplace.OrderInput{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	hub := NewHub()
	go hub.Run()

	outsider := serviceClient(hub, svc, stranger)
	participant := serviceClient(hub, svc, buyer)

	joinEvent := []byte(fmt.Sprintf(`{"type":"join_order_room","order_id":%d}`, order.ID))

	outsider.handleEvent(joinEvent)
	envelope := decodeEvent(t, outsider)
	if envelope["type"] != "error" {
		t.Fatalf("expected an error event, got %v", envelope["type"])
	}
	if envelope["code"] != marketplace.CodeForbidden {
		t.Errorf("expected FORBIDDEN, got %v", envelope["code"])
	}

	participant.handleEvent(joinEvent)

	hub.SendToOrderRoom(order.ID, []byte("order update"))

	select {
	case msg := <-participant.Send:
		if string(msg) != "order update" {
			t.Errorf("participant got %q", msg)
		}
	default:
		t.Error("participant joined the room but got no push")
	}

	select {
	case msg := <-outsider.Send:
		t.Errorf("non-participant received a room push: %q", msg)
	default:
	}
}

func TestJoinOrderRoom_RequiresOrderID(t *testing.T) {
	svc := newTestService(t)

	hub := NewHub()
	go hub.Run()

	client := serviceClient(hub, svc, &models.User{ID: 1, Role: models.RoleBuyer})
	client.handleEvent([]byte(`{"type":"join_order_room"}`))

	envelope := decodeEvent(t, client)
	if envelope["type"] != "error" {
		t.Fatalf("expected an error event, got %v", envelope["type"])
	}
	if envelope["code"] != marketplace.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", envelope["code"])
	}
}
