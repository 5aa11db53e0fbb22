package services

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"study-sync/studysync/broker"
	"study-sync/studysync/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 256
)

type WebSocketServiceInterface interface {
	Start()
	Stop()
	HandleConnection(c *gin.Context)
	Deliver(msg broker.Message) int
	ClientCount(userID string) int
}

// Client is one websocket connection of an authenticated user.
type Client struct {
	ID     string
	UserID string
	Hub    *WebSocketService
	Conn   *websocket.Conn
	Send   chan []byte
}

type ClientMessage struct {
	Type string `json:"type"`
}

// WebSocketService pushes change notifications to the connections of the
// user who owns the changed record. Nothing is ever sent to other users.
type WebSocketService struct {
	mu       sync.RWMutex
	clients  map[string]map[*Client]struct{}
	upgrader websocket.Upgrader
	consumer broker.Consumer

	runMu     sync.Mutex
	isRunning bool
	stopChan  chan struct{}
	done      chan struct{}
}

// NewWebSocketService creates the hub. consumer may be nil when no broker is
// available; connections are still accepted but receive nothing.
func NewWebSocketService(consumer broker.Consumer, checkOrigin func(r *http.Request) bool) *WebSocketService {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &WebSocketService{
		clients:  make(map[string]map[*Client]struct{}),
		consumer: consumer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

func (ws *WebSocketService) Start() {
	ws.runMu.Lock()
	defer ws.runMu.Unlock()
	if ws.isRunning {
		return
	}
	ws.isRunning = true
	ws.stopChan = make(chan struct{})
	ws.done = make(chan struct{})

	go ws.consume(ws.stopChan, ws.done)
	log.Info().Bool("broker", ws.consumer != nil).Msg("websocket service started")
}

func (ws *WebSocketService) Stop() {
	ws.runMu.Lock()
	if !ws.isRunning {
		ws.runMu.Unlock()
		return
	}
	ws.isRunning = false
	close(ws.stopChan)
	done := ws.done
	ws.runMu.Unlock()

	<-done

	ws.mu.Lock()
	for userID, set := range ws.clients {
		for client := range set {
			close(client.Send)
			if client.Conn != nil {
				client.Conn.Close()
			}
		}
		delete(ws.clients, userID)
	}
	ws.mu.Unlock()

	log.Info().Msg("websocket service stopped")
}

func (ws *WebSocketService) consume(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	if ws.consumer == nil {
		<-stop
		return
	}

	messages := ws.consumer.Messages()
	for {
		select {
		case <-stop:
			return
		case msg, ok := <-messages:
			if !ok {
				log.Warn().Msg("broker channel closed, websocket clients will no longer receive events")
				<-stop
				return
			}
			ws.Deliver(msg)
		}
	}
}

// HandleConnection upgrades an authenticated request. The user id must have
// been put on the context by the websocket auth middleware.
func (ws *WebSocketService) HandleConnection(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := ws.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("failed to upgrade websocket connection")
		return
	}

	client := &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Hub:    ws,
		Conn:   conn,
		Send:   make(chan []byte, sendBufferSize),
	}
	ws.register(client)

	go client.writePump()
	go client.readPump()
}

func (ws *WebSocketService) register(client *Client) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	set, ok := ws.clients[client.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		ws.clients[client.UserID] = set
	}
	set[client] = struct{}{}
	log.Debug().Str("client_id", client.ID).Str("user_id", client.UserID).Msg("websocket client connected")
}

func (ws *WebSocketService) unregister(client *Client) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.removeLocked(client)
}

func (ws *WebSocketService) removeLocked(client *Client) {
	set, ok := ws.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(ws.clients, client.UserID)
	}
	log.Debug().Str("client_id", client.ID).Msg("websocket client disconnected")
}

func (ws *WebSocketService) ClientCount(userID string) int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.clients[userID])
}

// Deliver routes a broker message to the owner's connections and reports how
// many connections it was queued on. Events without an owner are dropped.
func (ws *WebSocketService) Deliver(msg broker.Message) int {
	var env models.Envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		log.Warn().Err(err).Str("event", msg.EventType).Msg("discarding malformed broker message")
		return 0
	}
	if env.UserID == "" {
		return 0
	}
	if env.Type == "" {
		env.Type = msg.EventType
	}

	payload, err := ws.buildPayload(env)
	if err != nil {
		log.Error().Err(err).Str("event_id", env.EventID).Msg("failed to encode websocket message")
		return 0
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	sent := 0
	for client := range ws.clients[env.UserID] {
		select {
		case client.Send <- payload:
			sent++
		default:
			log.Warn().Str("client_id", client.ID).Msg("websocket send buffer full, dropping client")
			ws.removeLocked(client)
		}
	}
	return sent
}

func (ws *WebSocketService) buildPayload(env models.Envelope) ([]byte, error) {
	data := map[string]interface{}{}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, err
		}
	}

	msg := models.NewStandardMessage(models.EventMessage, env.Type, map[string]interface{}{
		"event_id":  env.EventID,
		"entity":    env.Entity,
		"operation": env.Operation,
		"data":      data,
	})
	if id, ok := data[env.Entity+"_id"].(string); ok {
		msg.WithResource(env.Entity, id)
	}
	return json.Marshal(msg)
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.ID).Msg("websocket read failed")
			}
			return
		}
		c.processMessage(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage answers keepalives. Clients never mutate data over the
// socket; anything other than a ping gets an error reply.
func (c *Client) processMessage(msg []byte) {
	var clientMsg ClientMessage
	if err := json.Unmarshal(msg, &clientMsg); err != nil {
		log.Debug().Err(err).Str("client_id", c.ID).Msg("malformed client message")
		c.reply(models.NewStandardMessage(models.ErrorMessage, "", map[string]interface{}{
			"message": "malformed message",
		}))
		return
	}

	switch clientMsg.Type {
	case "ping":
		c.reply(models.NewStandardMessage(models.PongMessage, "", map[string]interface{}{}))
	default:
		log.Debug().Str("type", clientMsg.Type).Msg("unknown websocket message type")
		c.reply(models.NewStandardMessage(models.ErrorMessage, "", map[string]interface{}{
			"message": "unsupported message type",
			"type":    clientMsg.Type,
		}))
	}
}

// reply queues msg unless the client has already been removed from the hub.
func (c *Client) reply(msg *models.StandardMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.Hub.mu.RLock()
	defer c.Hub.mu.RUnlock()
	if _, ok := c.Hub.clients[c.UserID][c]; !ok {
		return
	}
	select {
	case c.Send <- payload:
	default:
	}
}
