package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()

	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		userID, err := primitive.ObjectIDFromHex(c.QueryParam("user"))
		if err != nil {
			return err
		}
		tenantID, err := primitive.ObjectIDFromHex(c.QueryParam("tenant"))
		if err != nil {
			return err
		}
		return HandleWebSocket(c, hub, userID, tenantID)
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server, userID, tenantID primitive.ObjectID) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?user=" + userID.Hex() + "&tenant=" + tenantID.Hex()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// First frame is the connection acknowledgement
	var hello Event
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != "connected" {
		t.Fatalf("hello type = %q, want connected", hello.Type)
	}
	return conn
}

func waitForClients(t *testing.T, hub *Hub, tenantID primitive.ObjectID, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ConnectedCount(tenantID) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("tenant %s connected count never reached %d", tenantID.Hex(), want)
}

func TestBroadcastToTenantScoping(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	srv := newTestServer(t, hub)

	tenantA := primitive.NewObjectID()
	tenantB := primitive.NewObjectID()

	connA := dialWS(t, srv, primitive.NewObjectID(), tenantA)
	connB := dialWS(t, srv, primitive.NewObjectID(), tenantB)

	waitForClients(t, hub, tenantA, 1)
	waitForClients(t, hub, tenantB, 1)

	hub.BroadcastToTenant(tenantA, Event{Type: EventLeadCreated, Message: "New lead"})

	var got Event
	connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := connA.ReadJSON(&got); err != nil {
		t.Fatalf("tenant A client read: %v", err)
	}
	if got.Type != EventLeadCreated {
		t.Errorf("event type = %q, want %q", got.Type, EventLeadCreated)
	}
	if got.TenantID != tenantA.Hex() {
		t.Errorf("event tenantId = %q, want %q", got.TenantID, tenantA.Hex())
	}

	// The other tenant's client must stay silent
	connB.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var stray Event
	if err := connB.ReadJSON(&stray); err == nil {
		t.Errorf("tenant B client received %q, want no event", stray.Type)
	}
}

func TestSendToUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	srv := newTestServer(t, hub)

	tenantID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	conn := dialWS(t, srv, userID, tenantID)
	waitForClients(t, hub, tenantID, 1)

	if err := hub.SendToUser(userID, Event{Type: EventLeadStatusChanged}); err != nil {
		t.Fatalf("SendToUser: %v", err)
	}

	var got Event
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Type != EventLeadStatusChanged {
		t.Errorf("event type = %q, want %q", got.Type, EventLeadStatusChanged)
	}

	if err := hub.SendToUser(primitive.NewObjectID(), Event{Type: EventLeadCreated}); err == nil {
		t.Error("SendToUser to an unknown user returned nil, want error")
	}
}

func TestReconnectSupersedesOldSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	srv := newTestServer(t, hub)

	tenantID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	old := dialWS(t, srv, userID, tenantID)
	waitForClients(t, hub, tenantID, 1)

	replacement := dialWS(t, srv, userID, tenantID)

	// The hub closes the superseded connection
	old.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := old.ReadMessage(); err == nil {
		t.Fatal("superseded connection still readable, want close")
	}

	// The old session's reader exiting must not evict the replacement
	time.Sleep(50 * time.Millisecond)
	if n := hub.ConnectedCount(tenantID); n != 1 {
		t.Fatalf("connected count after reconnect = %d, want 1", n)
	}

	hub.BroadcastToTenant(tenantID, Event{Type: EventBookingUpdated})

	var got Event
	replacement.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := replacement.ReadJSON(&got); err != nil {
		t.Fatalf("replacement read: %v", err)
	}
	if got.Type != EventBookingUpdated {
		t.Errorf("event type = %q, want %q", got.Type, EventBookingUpdated)
	}
}
