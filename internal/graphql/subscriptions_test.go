package graphql

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/AlvinAbiero/online-marketplace/internal/marketplace"
	"github.com/AlvinAbiero/online-marketplace/models"

	"github.com/graphql-go/graphql"
)

func TestMessageAddedSubscription(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	schema, svc := newTestSchema(t)

	sender, err := svc.Register(marketplace.RegisterInput{
		Email: "sender@example.com", Password: "secret123",
		FirstName: "Send", LastName: "Er",
	})
	if err != nil {
		t.Fatalf("register sender: %v", err)
	}
	receiver, err := svc.Register(marketplace.RegisterInput{
		Email: "receiver@example.com", Password: "secret123",
		FirstName: "Rece", LastName: "Iver",
	})
	if err != nil {
		t.Fatalf("register receiver: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = WithPrincipal(ctx, &marketplace.Principal{
		UserID: receiver.User.ID,
		Role:   receiver.User.Role,
	})

	results := graphql.Subscribe(graphql.Params{
		Schema:        schema,
		RequestString: `subscription ($id: ID!) { messageAdded(userId: $id) { content sender { email } } }`,
		VariableValues: map[string]interface{}{
			"id": strconv.FormatUint(uint64(receiver.User.ID), 10),
		},
		Context: ctx,
	})

	// Give the subscription goroutine a moment to attach to the topic.
	time.Sleep(50 * time.Millisecond)

	if _, err := svc.SendMessage(
		&marketplace.Principal{UserID: sender.User.ID, Role: sender.User.Role},
		marketplace.MessageInput{ReceiverID: receiver.User.ID, Content: "still available?"},
	); err != nil {
		t.Fatalf("send message: %v", err)
	}

	select {
	case result := <-results:
		if len(result.Errors) > 0 {
			t.Fatalf("subscription result errors: %v", result.Errors)
		}
		message := result.Data.(map[string]interface{})["messageAdded"].(map[string]interface{})
		if message["content"] != "still available?" {
			t.Errorf("unexpected content: %v", message["content"])
		}
		if message["sender"].(map[string]interface{})["email"] != "sender@example.com" {
			t.Errorf("sender relation not expanded: %v", message["sender"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no subscription event received")
	}
}

func TestMessageAddedSubscription_OtherUserForbidden(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	schema, svc := newTestSchema(t)

	victim, err := svc.Register(marketplace.RegisterInput{
		Email: "victim@example.com", Password: "secret123",
		FirstName: "Vic", LastName: "Tim",
	})
	if err != nil {
		t.Fatalf("register victim: %v", err)
	}
	snoop, err := svc.Register(marketplace.RegisterInput{
		Email: "snoop@example.com", Password: "secret123",
		FirstName: "Sno", LastName: "Op",
	})
	if err != nil {
		t.Fatalf("register snoop: %v", err)
	}

	ctx := WithPrincipal(context.Background(), &marketplace.Principal{
		UserID: snoop.User.ID,
		Role:   snoop.User.Role,
	})

	results := graphql.Subscribe(graphql.Params{
		Schema:        schema,
		RequestString: `subscription ($id: ID!) { messageAdded(userId: $id) { content } }`,
		VariableValues: map[string]interface{}{
			"id": strconv.FormatUint(uint64(victim.User.ID), 10),
		},
		Context: ctx,
	})

	select {
	case result, ok := <-results:
		if !ok {
			t.Fatal("channel closed without a result")
		}
		if len(result.Errors) == 0 {
			t.Fatal("expected a forbidden error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no result received")
	}
}

func TestOrderStatusUpdatedSubscription(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	schema, svc := newTestSchema(t)

	seller, err := svc.Register(marketplace.RegisterInput{
		Email: "seller@example.com", Password: "secret123",
		FirstName: "Sarah", LastName: "Seller", Role: models.RoleSeller,
	})
	if err != nil {
		t.Fatalf("register seller: %v", err)
	}
	buyer, err := svc.Register(marketplace.RegisterInput{
		Email: "buyer@example.com", Password: "secret123",
		FirstName: "Ben", LastName: "Buyer",
	})
	if err != nil {
		t.Fatalf("register buyer: %v", err)
	}

	sellerP := &marketplace.Principal{UserID: seller.User.ID, Role: seller.User.Role}
	buyerP := &marketplace.Principal{UserID: buyer.User.ID, Role: buyer.User.Role}

	product, err := svc.CreateProduct(sellerP, marketplace.ProductInput{
		Title:       "Mechanical Keyboard",
		Description: "Tenkeyless board with brown switches",
		Price:       100,
		Category:    "electronics",
		Stock:       5,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	order, err := svc.CreateOrder(buyerP, marketplace.OrderInput{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = WithPrincipal(ctx, buyerP)

	results := graphql.Subscribe(graphql.Params{
		Schema:        schema,
		RequestString: `subscription ($id: ID!) { orderStatusUpdated(orderId: $id) { status } }`,
		VariableValues: map[string]interface{}{
			"id": strconv.FormatUint(uint64(order.ID), 10),
		},
		Context: ctx,
	})

	time.Sleep(50 * time.Millisecond)

	if _, err := svc.UpdateOrderStatus(sellerP, order.ID, models.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel order: %v", err)
	}

	select {
	case result := <-results:
		if len(result.Errors) > 0 {
			t.Fatalf("subscription result errors: %v", result.Errors)
		}
		update := result.Data.(map[string]interface{})["orderStatusUpdated"].(map[string]interface{})
		if update["status"] != "CANCELLED" {
			t.Errorf("expected CANCELLED, got %v", update["status"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no subscription event received")
	}
}
