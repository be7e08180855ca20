package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/trucoforbots/internal/game"
	"github.com/lox/trucoforbots/internal/server" // Reuse message types
)

// Client represents a WebSocket client for a truco server
type Client struct {
	serverURL  string
	conn       *websocket.Conn
	send       chan *server.Message
	logger     *log.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.RWMutex
	connected  bool
	playerName string
	matchID    string
	closeOnce  sync.Once

	views   *game.Mailbox
	notices []string

	// Event handlers
	eventHandlers map[server.MessageType][]EventHandler
}

// EventHandler is a function that handles incoming events
type EventHandler func(*server.Message)

// NewClient creates a new WebSocket client
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL:     serverURL,
		send:          make(chan *server.Message, 256),
		logger:        logger.WithPrefix("client"),
		ctx:           ctx,
		cancel:        cancel,
		views:         game.NewMailbox(),
		eventHandlers: make(map[server.MessageType][]EventHandler),
	}
}

// WebSocketURL converts an http(s) or ws(s) server address into its /ws endpoint
func WebSocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	// Convert http/https to ws/wss
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL scheme %q", u.Scheme)
	}

	// Add WebSocket path
	if !strings.HasSuffix(u.Path, "/ws") {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	}
	return u.String(), nil
}

// Connect establishes a WebSocket connection to the server
func (c *Client) Connect(timeout time.Duration) error {
	c.logger.Info("Connecting to server", "url", c.serverURL)

	wsURL, err := WebSocketURL(c.serverURL)
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.DialContext(c.ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()

	c.logger.Info("Connected to server")
	return nil
}

// Disconnect closes the WebSocket connection
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.conn != nil {
			_ = c.conn.Close() // Ignore close errors during shutdown
			c.connected = false
		}

		c.logger.Info("Disconnected from server")
	})
	return nil
}

// Done is closed once the client disconnects
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// SendMessage sends a message to the server
func (c *Client) SendMessage(msg *server.Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		return errors.New("send buffer full")
	}
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		c.cancel()
	}()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type)
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second) // Ping interval
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(time.Second))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage keeps the client's own state in step with the server, in
// arrival order, then dispatches to registered handlers.
func (c *Client) handleMessage(msg *server.Message) {
	switch msg.Type {
	case server.MessageTypeJoined:
		var data server.JoinedData
		if err := msg.Decode(&data); err == nil {
			c.setMatch(data.MatchID)
			c.addNotice(fmt.Sprintf("Joined match %s against %s", shortID(data.MatchID), data.Opponent))
		}

	case server.MessageTypeWaiting:
		c.addNotice("Waiting for an opponent")

	case server.MessageTypeState:
		var data server.StateData
		if err := msg.Decode(&data); err != nil {
			c.logger.Error("Failed to parse state", "error", err)
			return
		}
		c.views.Update(data.View)

	case server.MessageTypeError:
		var data server.ErrorData
		if err := msg.Decode(&data); err == nil {
			c.logger.Warn("Server error", "code", data.Code, "message", data.Message)
			c.addNotice(data.Message)
			if data.Code == server.CodeOpponentLeft {
				c.setMatch("")
			}
		}

	case server.MessageTypeLeft:
		c.setMatch("")
	}

	c.mu.RLock()
	handlers := c.eventHandlers[msg.Type]
	c.mu.RUnlock()

	for _, handler := range handlers {
		go handler(msg) // Handle asynchronously
	}
}

// AddEventHandler adds an event handler for a specific message type
func (c *Client) AddEventHandler(messageType server.MessageType, handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.eventHandlers[messageType] = append(c.eventHandlers[messageType], handler)
}

// Join asks for a seat. opponent is server.HouseOpponent to play the house bot,
// or empty to wait for another player.
func (c *Client) Join(playerName, opponent string) error {
	c.mu.Lock()
	c.playerName = playerName
	c.mu.Unlock()

	joinMsg, err := server.NewMessage(server.MessageTypeJoin, server.JoinData{
		Name:     playerName,
		Opponent: opponent,
	})
	if err != nil {
		return err
	}

	return c.SendMessage(joinMsg)
}

// Act sends a command for the current match
func (c *Client) Act(cmd game.Command) error {
	actionMsg, err := server.NewMessage(server.MessageTypeAction, server.ActionData{
		Action: cmd.Action.String(),
		Index:  cmd.Index,
	})
	if err != nil {
		return err
	}

	return c.SendMessage(actionMsg)
}

// Leave abandons the current match or lobby slot
func (c *Client) Leave() error {
	leaveMsg, err := server.NewMessage(server.MessageTypeLeave, struct{}{})
	if err != nil {
		return err
	}

	return c.SendMessage(leaveMsg)
}

// Poll returns the latest unread view
func (c *Client) Poll() (game.PlayerView, bool) {
	return c.views.Read()
}

// Notices drains the messages worth showing a human
func (c *Client) Notices() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	notices := c.notices
	c.notices = nil
	return notices
}

func (c *Client) addNotice(notice string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, notice)
}

func (c *Client) setMatch(matchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matchID = matchID
}

// MatchID returns the current match ID
func (c *Client) MatchID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.matchID
}

// PlayerName returns the player name
func (c *Client) PlayerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerName
}

// WaitForMessage waits for a specific message type with timeout
func (c *Client) WaitForMessage(messageType server.MessageType, timeout time.Duration) (*server.Message, error) {
	responseChan := make(chan *server.Message, 1)

	// Add temporary handler
	handler := func(msg *server.Message) {
		select {
		case responseChan <- msg:
		default:
		}
	}

	c.AddEventHandler(messageType, handler)

	// Wait for response or timeout
	select {
	case msg := <-responseChan:
		return msg, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("timeout waiting for %s", messageType)
	case <-c.ctx.Done():
		return nil, c.ctx.Err()
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
