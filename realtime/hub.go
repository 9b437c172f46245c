// Package realtime is the websocket side of the live-update channel. Clients
// connect once at /ws; authenticated clients are placed in a per-user room so
// order and notification events can address a single recipient, while staff
// dashboards listen to the broadcast events.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"carniceria-backend/helpers"
	"carniceria-backend/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Socket event names consumed by the frontend.
const (
	EventNotify              = "notify"
	EventOrdersUpdated       = "orders:updated"
	EventButcherOrderUpdated = "butcher:order:updated"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	mu      sync.Mutex
	clients = make(map[*websocket.Conn]string)
	rooms   = make(map[string]map[*websocket.Conn]bool)
)

// Message is the wire envelope for every socket event.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// HandleWebSocket upgrades the connection and keeps it registered until the
// peer goes away. The client may pass its JWT as a "token" query parameter;
// a valid token joins the user's room, anonymous connections still receive
// broadcasts.
func HandleWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.GetLogger().Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		userId := ""
		if token := c.Query("token"); token != "" {
			if claims, msg := helpers.ValidateToken(token); msg == "" {
				userId = claims.Uid
			}
		}
		register(conn, userId)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				unregister(conn)
				break
			}
		}
	}
}

func register(conn *websocket.Conn, userId string) {
	mu.Lock()
	defer mu.Unlock()
	clients[conn] = userId
	if userId != "" {
		if rooms[userId] == nil {
			rooms[userId] = make(map[*websocket.Conn]bool)
		}
		rooms[userId][conn] = true
	}
}

func unregister(conn *websocket.Conn) {
	mu.Lock()
	defer mu.Unlock()
	dropLocked(conn)
}

func dropLocked(conn *websocket.Conn) {
	if userId, ok := clients[conn]; ok && userId != "" {
		delete(rooms[userId], conn)
		if len(rooms[userId]) == 0 {
			delete(rooms, userId)
		}
	}
	delete(clients, conn)
}

// Broadcast sends an event to every connected client.
func Broadcast(event string, payload interface{}) {
	mu.Lock()
	defer mu.Unlock()
	messageBytes, err := json.Marshal(Message{Event: event, Payload: payload})
	if err != nil {
		logger.GetLogger().Warn("error marshaling socket message", zap.Error(err))
		return
	}
	for conn := range clients {
		writeLocked(conn, messageBytes)
	}
}

// Emit sends an event to every connection in one user's room.
func Emit(userId string, event string, payload interface{}) {
	mu.Lock()
	defer mu.Unlock()
	messageBytes, err := json.Marshal(Message{Event: event, Payload: payload})
	if err != nil {
		logger.GetLogger().Warn("error marshaling socket message", zap.Error(err))
		return
	}
	for conn := range rooms[userId] {
		writeLocked(conn, messageBytes)
	}
}

func writeLocked(conn *websocket.Conn, messageBytes []byte) {
	if err := conn.WriteMessage(websocket.TextMessage, messageBytes); err != nil {
		logger.GetLogger().Warn("error writing socket message", zap.Error(err))
		conn.Close()
		dropLocked(conn)
	}
}
