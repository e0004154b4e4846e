package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"gestor/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth happens via the JWT middleware before the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeWait = 10 * time.Second

// RealtimeHandler pushes change-feed events over a websocket so clients can
// refetch the affected collections.
type RealtimeHandler struct {
	feed *realtime.Feed
}

func NewRealtimeHandler(feed *realtime.Feed) *RealtimeHandler {
	return &RealtimeHandler{feed: feed}
}

var defaultTables = []string{"tasks", "clients", "calendar_events", "transactions", "users", "notifications"}

// GET /realtime?tables=tasks,clients
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	tables := defaultTables
	if v, ok := c.GetQuery("tables"); ok && v != "" {
		tables = strings.Split(v, ",")
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[realtime][err] upgrade for user=%s: %v", userID, err)
		return
	}

	sub := h.feed.Subscribe(userID, tables...)
	log.Printf("[realtime][open] user=%s tables=%v", userID, tables)

	// Reader: we ignore client frames but need the loop to notice closes.
	go func() {
		defer sub.Unsubscribe()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for e := range sub.C {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(e); err != nil {
			log.Printf("[realtime][close] user=%s: %v", userID, err)
			break
		}
	}
	sub.Unsubscribe()
	conn.Close()
	log.Printf("[realtime][closed] user=%s", userID)
}
