package events

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wireEvent is the JSON shape broadcast to subscribers.
type wireEvent struct {
	Type    Type `json:"type"`
	Payload any  `json:"payload"`
}

// WebSocketSink fans out bus emissions to connected websocket clients. It
// subscribes to the bus for every event type passed to Watch and broadcasts
// each emission as JSON; write errors drop the offending client without
// affecting the bus or other clients.
type WebSocketSink struct {
	clients   map[*websocket.Conn]bool
	broadcast chan wireEvent
	mutex     sync.Mutex
}

// NewWebSocketSink constructs a sink with its broadcast loop not yet
// started; call Run in its own goroutine.
func NewWebSocketSink() *WebSocketSink {
	return &WebSocketSink{
		broadcast: make(chan wireEvent, 256),
		clients:   make(map[*websocket.Conn]bool),
	}
}

// Watch subscribes the sink to eventType on bus for the sink's lifetime.
func (s *WebSocketSink) Watch(bus *Bus, eventType Type) {
	bus.On(eventType, func(payload any) error {
		s.broadcast <- wireEvent{Type: eventType, Payload: payload}
		return nil
	})
}

// Run drains the broadcast channel, pushing each event to every connected
// client. It blocks until the channel is closed.
func (s *WebSocketSink) Run() {
	for evt := range s.broadcast {
		data, err := json.Marshal(evt)
		if err != nil {
			log.Printf("events: failed to marshal event for broadcast: %v", err)
			continue
		}
		s.mutex.Lock()
		for client := range s.clients {
			_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("events: websocket write error: %v", err)
				client.Close()
				delete(s.clients, client)
			}
		}
		s.mutex.Unlock()
	}
}

// Subscribe upgrades an incoming HTTP request to a websocket connection and
// registers it as a broadcast recipient.
func (s *WebSocketSink) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("events: failed to upgrade websocket: %v", err)
		return
	}

	s.mutex.Lock()
	s.clients[conn] = true
	s.mutex.Unlock()

	go func() {
		defer func() {
			s.mutex.Lock()
			delete(s.clients, conn)
			s.mutex.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}
