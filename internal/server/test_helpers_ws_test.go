package server

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

const readTimeout = 5 * time.Second

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// newTestServer serves a fast-polling server with a fixed seed. mutate may
// adjust the config before the server is built.
func newTestServer(t *testing.T, mutate func(*ServerConfig)) (*Server, string) {
	t.Helper()

	cfg := DefaultServerConfig()
	cfg.Server.PollIntervalMS = 2
	cfg.Match.TargetScore = 3
	cfg.Match.Seed = 7
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	srv := NewServer(cfg, testLogger(), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Stop(context.Background())
		ts.Close()
	})

	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, url string) *wsClient {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(typ MessageType, data any) {
	c.t.Helper()

	msg, err := NewMessage(typ, data)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

func (c *wsClient) join(name, opponent string) {
	c.t.Helper()
	c.send(MessageTypeJoin, JoinData{Name: name, Opponent: opponent})
}

func (c *wsClient) read() *Message {
	c.t.Helper()

	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(readTimeout)))
	var msg Message
	require.NoError(c.t, c.conn.ReadJSON(&msg))
	return &msg
}

// readUntil skips messages until one of type typ arrives
func (c *wsClient) readUntil(typ MessageType) *Message {
	c.t.Helper()

	deadline := time.Now().Add(readTimeout)
	for time.Now().Before(deadline) {
		if msg := c.read(); msg.Type == typ {
			return msg
		}
	}
	c.t.Fatalf("no %s message within %s", typ, readTimeout)
	return nil
}

func (c *wsClient) readError() ErrorData {
	c.t.Helper()

	var data ErrorData
	require.NoError(c.t, c.readUntil(MessageTypeError).Decode(&data))
	return data
}

func (c *wsClient) readJoined() JoinedData {
	c.t.Helper()

	var data JoinedData
	require.NoError(c.t, c.readUntil(MessageTypeJoined).Decode(&data))
	return data
}

func (c *wsClient) readState() StateData {
	c.t.Helper()

	var data StateData
	require.NoError(c.t, c.readUntil(MessageTypeState).Decode(&data))
	return data
}
