package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/AlvinAbiero/online-marketplace/internal/fanout"
)

func newTestClient(hub *Hub, userID uint) *Client {
	return &Client{
		Hub:    hub,
		Send:   make(chan []byte, 16),
		UserID: userID,
	}
}

func register(t *testing.T, hub *Hub, client *Client) {
	t.Helper()
	select {
	case hub.Register <- client:
	case <-time.After(time.Second):
		t.Fatal("register timed out")
	}
	waitOnline(t, hub, client.UserID)
}

func waitOnline(t *testing.T, hub *Hub, userID uint) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.IsUserOnline(userID) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("user %d never came online", userID)
}

func TestHub_PresenceSurvivesSecondConnection(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newTestClient(hub, 1)
	second := newTestClient(hub, 1)
	register(t, hub, first)
	register(t, hub, second)

	hub.Unregister <- first

	// The user still has one live connection.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.IsUserOnline(1) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !hub.IsUserOnline(1) {
		t.Error("user went offline while a connection remained")
	}

	hub.Unregister <- second
	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) && hub.IsUserOnline(1) {
		time.Sleep(time.Millisecond)
	}
	if hub.IsUserOnline(1) {
		t.Error("user still online after last disconnect")
	}
}

func TestHub_SendToUserReachesEveryConnection(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newTestClient(hub, 1)
	second := newTestClient(hub, 1)
	other := newTestClient(hub, 2)
	register(t, hub, first)
	register(t, hub, second)
	register(t, hub, other)

	hub.SendToUser(1, []byte("ping"))

	for name, client := range map[string]*Client{"first": first, "second": second} {
		select {
		case msg := <-client.Send:
			if string(msg) != "ping" {
				t.Errorf("%s connection got %q", name, msg)
			}
		default:
			t.Errorf("%s connection got nothing", name)
		}
	}

	select {
	case msg := <-other.Send:
		t.Errorf("message leaked to another user: %q", msg)
	default:
	}
}

func TestHub_OrderRooms(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	inRoom := newTestClient(hub, 1)
	outOfRoom := newTestClient(hub, 2)
	register(t, hub, inRoom)
	register(t, hub, outOfRoom)

	hub.JoinOrderRoom(inRoom, 10)
	hub.SendToOrderRoom(10, []byte("order update"))

	select {
	case msg := <-inRoom.Send:
		if string(msg) != "order update" {
			t.Errorf("unexpected payload: %q", msg)
		}
	default:
		t.Error("room member got nothing")
	}

	select {
	case <-outOfRoom.Send:
		t.Error("non-member received a room push")
	default:
	}

	hub.LeaveOrderRoom(inRoom, 10)
	hub.SendToOrderRoom(10, []byte("after leave"))
	select {
	case <-inRoom.Send:
		t.Error("client received a push after leaving the room")
	default:
	}
}

func TestHub_SlowClientIsEvictedWithoutPanic(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: 1}
	healthy := newTestClient(hub, 1)
	register(t, hub, slow)
	register(t, hub, healthy)

	// The first push fills the slow connection's buffer. The second
	// overflows it and must evict the connection. The third must still
	// reach the healthy connection instead of panicking on a closed
	// channel.
	hub.SendToUser(1, []byte("one"))
	hub.SendToUser(1, []byte("two"))
	hub.SendToUser(1, []byte("three"))

	for i := 0; i < 3; i++ {
		select {
		case <-healthy.Send:
		default:
			t.Fatalf("healthy connection missing push %d", i+1)
		}
	}

	// The user stays online through the remaining connection.
	if !hub.IsUserOnline(1) {
		t.Error("user went offline while a healthy connection remained")
	}

	<-slow.Send // the buffered push
	if _, ok := <-slow.Send; ok {
		t.Error("evicted connection's channel was not closed")
	}

	// The read pump reports the dead connection later; that must be a
	// no-op rather than a double close.
	hub.Unregister <- slow
	time.Sleep(10 * time.Millisecond)
	if !hub.IsUserOnline(1) {
		t.Error("unregister of an evicted connection knocked the user offline")
	}
}

func TestHub_SlowRoomMemberIsEvicted(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: 1}
	register(t, hub, slow)
	hub.JoinOrderRoom(slow, 10)

	hub.SendToOrderRoom(10, []byte("one"))
	hub.SendToOrderRoom(10, []byte("two"))
	hub.SendToOrderRoom(10, []byte("three"))

	if hub.IsUserOnline(1) {
		t.Error("evicted room member still tracked as online")
	}

	<-slow.Send // the buffered push
	if _, ok := <-slow.Send; ok {
		t.Error("evicted room member's channel was not closed")
	}
}

func TestHub_DeliverMessageAdded(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	receiver := newTestClient(hub, 5)
	register(t, hub, receiver)

	hub.Deliver(fanout.Event{
		Kind:       fanout.MessageAdded,
		ReceiverID: 5,
		Payload:    map[string]interface{}{"content": "hello"},
	})

	select {
	case raw := <-receiver.Send:
		var envelope map[string]interface{}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Fatalf("bad push payload: %v", err)
		}
		if envelope["type"] != "new_message" {
			t.Errorf("expected new_message event, got %v", envelope["type"])
		}
	default:
		t.Error("receiver got no push")
	}
}

func TestHub_DeliverOrderStatusUpdated(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	watcher := newTestClient(hub, 5)
	register(t, hub, watcher)
	hub.JoinOrderRoom(watcher, 77)

	hub.Deliver(fanout.Event{
		Kind:    fanout.OrderStatusUpdated,
		OrderID: 77,
		Payload: map[string]interface{}{"status": "paid"},
	})

	select {
	case raw := <-watcher.Send:
		var envelope map[string]interface{}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Fatalf("bad push payload: %v", err)
		}
		if envelope["type"] != "order_updated" {
			t.Errorf("expected order_updated event, got %v", envelope["type"])
		}
	default:
		t.Error("room member got no push")
	}
}
