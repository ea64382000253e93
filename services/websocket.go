package services

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lupine-games/werewolf/models"
)

const writeTimeout = 5 * time.Second

// WebSocketManager tracks spectator connections per game and broadcasts game
// notifications to them. Spectators are read-only: agents are consulted by
// the engine, they are not connected clients.
type WebSocketManager struct {
	mu    sync.RWMutex
	conns map[string][]*websocket.Conn // gameID -> connections
}

// NewWebSocketManager creates an empty connection manager.
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		conns: make(map[string][]*websocket.Conn),
	}
}

// Register attaches a spectator connection to a game and starts the reader
// goroutine that detects the peer going away.
func (wm *WebSocketManager) Register(gameID string, conn *websocket.Conn) {
	wm.mu.Lock()
	wm.conns[gameID] = append(wm.conns[gameID], conn)
	wm.mu.Unlock()

	go wm.readUntilClosed(gameID, conn)
}

// readUntilClosed drains inbound frames (spectators send nothing meaningful)
// and removes the connection when the read loop ends.
func (wm *WebSocketManager) readUntilClosed(gameID string, conn *websocket.Conn) {
	conn.SetReadLimit(4 * 1024)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("spectator read error on game %s: %v", gameID, err)
			}
			break
		}
	}
	wm.remove(gameID, conn)
}

func (wm *WebSocketManager) remove(gameID string, conn *websocket.Conn) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	conns := wm.conns[gameID]
	for i, c := range conns {
		if c == conn {
			wm.conns[gameID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(wm.conns[gameID]) == 0 {
		delete(wm.conns, gameID)
	}
	conn.Close()
}

// Broadcast sends one JSON frame to every spectator of a game. Connections
// that fail to take the write are dropped.
func (wm *WebSocketManager) Broadcast(gameID string, payload interface{}) {
	wm.mu.RLock()
	conns := append([]*websocket.Conn(nil), wm.conns[gameID]...)
	wm.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(payload); err != nil {
			log.Printf("broadcast to game %s failed: %v", gameID, err)
			wm.remove(gameID, conn)
		}
	}
}

// SinkFor returns an OutputSink that broadcasts every notification of one
// game to its spectators.
func (wm *WebSocketManager) SinkFor(gameID string) OutputSink {
	return &webSocketSink{mgr: wm, gameID: gameID}
}

type webSocketSink struct {
	mgr    *WebSocketManager
	gameID string
}

type wsEvent struct {
	Type      string                 `json:"type"`
	EventType models.OutputEventType `json:"event_type"`
	Message   string                 `json:"message"`
	Player    string                 `json:"player,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

func (s *webSocketSink) Notify(message string, eventType models.OutputEventType, player *models.Player, metadata map[string]interface{}) {
	event := wsEvent{
		Type:      "notification",
		EventType: eventType,
		Message:   message,
		Metadata:  metadata,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if player != nil {
		event.Player = player.Name
	}
	s.mgr.Broadcast(s.gameID, event)
}
