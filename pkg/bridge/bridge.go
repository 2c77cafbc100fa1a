// Package bridge implements the wire transport for the alternative
// bridge-mode orchestrator (spec.md §4.8.2, §6.7): a WebSocket
// connection carrying the {messages, max_remaining} request / {text,
// finish_reason, tool_calls} response envelope verbatim, so the
// "external bridge" is a real, addressable peer rather than a
// same-process function call.
//
// Grounded on the JSON-frame-over-websocket shape used by
// haasonsaas-nexus's internal/gateway/ws_control_plane.go (an
// Upgrader with origin-check and buffer sizing, one JSON text frame
// per logical message) adapted from that control-plane's richer frame
// type down to the bridge's flat request/response envelope.
package bridge

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Message is one role-tagged entry in the conversation sent to the
// bridge on each turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCall is a single tool invocation the bridge chose to make.
type ToolCall struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Args string `json:"args"`
}

// Request is sent agent → bridge once per turn.
type Request struct {
	Messages     []Message `json:"messages"`
	MaxRemaining int       `json:"max_remaining"`
}

// Response is sent bridge → agent once per turn.
type Response struct {
	Text         string     `json:"text"`
	FinishReason string     `json:"finish_reason"`
	ToolCalls    []ToolCall `json:"tool_calls"`
}

const (
	writeWait = 10 * time.Second
	readWait  = 300 * time.Second
)

// Conn wraps a single websocket connection carrying the bridge
// envelope, usable from either side: Dial opens the agent side, Accept
// opens the bridge side.
type Conn struct {
	ws *websocket.Conn
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  8192,
	WriteBufferSize: 8192,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Dial opens the agent side of the bridge connection to addr (a
// ws:// or wss:// URL).
func Dial(addr string) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("bridge: dial %s: %w", addr, err)
	}
	return &Conn{ws: ws}, nil
}

// Accept upgrades an incoming HTTP request to the bridge side of the
// connection, used by a bridge process listening for the agent.
func Accept(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("bridge: upgrade: %w", err)
	}
	return &Conn{ws: ws}, nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}

// SendRequest writes one Request as a single JSON text frame.
func (c *Conn) SendRequest(req Request) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("bridge: encode request: %w", err)
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// ReadRequest reads one Request frame, used by the bridge side.
func (c *Conn) ReadRequest() (Request, error) {
	var req Request
	_ = c.ws.SetReadDeadline(time.Now().Add(readWait))
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return req, fmt.Errorf("bridge: read request: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("bridge: decode request: %w", err)
	}
	return req, nil
}

// SendResponse writes one Response as a single JSON text frame, used
// by the bridge side.
func (c *Conn) SendResponse(res Response) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("bridge: encode response: %w", err)
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// ReadResponse reads one Response frame, used by the agent side.
func (c *Conn) ReadResponse() (Response, error) {
	var res Response
	_ = c.ws.SetReadDeadline(time.Now().Add(readWait))
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return res, fmt.Errorf("bridge: read response: %w", err)
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return res, fmt.Errorf("bridge: decode response: %w", err)
	}
	return res, nil
}
