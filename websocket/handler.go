package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the connection and registers the authenticated
// user with the hub. The caller resolves user and tenant from the JWT.
func HandleWebSocket(c echo.Context, hub *Hub, userID, tenantID primitive.ObjectID) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		UserID:   userID,
		TenantID: tenantID,
		Conn:     conn,
	}

	hub.Register(client)

	conn.WriteJSON(Event{
		Type:    "connected",
		Message: "WebSocket connection established",
	})

	// Drain reads until the client disconnects
	go func() {
		defer hub.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return nil
}
