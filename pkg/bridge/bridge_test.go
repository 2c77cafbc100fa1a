package bridge

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serverConn(t *testing.T, handle func(*Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := Accept(w, r)
		if err != nil {
			t.Errorf("Accept: %v", err)
			return
		}
		defer c.Close()
		handle(c)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestRequestResponseRoundTrip(t *testing.T) {
	addr := serverConn(t, func(c *Conn) {
		req, err := c.ReadRequest()
		if err != nil {
			t.Errorf("ReadRequest: %v", err)
			return
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "hello" {
			t.Errorf("unexpected request: %+v", req)
		}
		if err := c.SendResponse(Response{Text: "hi there", FinishReason: "stop"}); err != nil {
			t.Errorf("SendResponse: %v", err)
		}
	})

	conn, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.SendRequest(Request{Messages: []Message{{Role: "user", Content: "hello"}}, MaxRemaining: 15}); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	res, err := conn.ReadResponse()
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if res.Text != "hi there" || res.FinishReason != "stop" {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestToolCallsRoundTrip(t *testing.T) {
	addr := serverConn(t, func(c *Conn) {
		if _, err := c.ReadRequest(); err != nil {
			t.Errorf("ReadRequest: %v", err)
			return
		}
		resp := Response{
			Text:         "running a tool",
			FinishReason: "tool_calls",
			ToolCalls:    []ToolCall{{ID: "1", Name: "read_file", Args: `{"path":"a.txt"}`}},
		}
		if err := c.SendResponse(resp); err != nil {
			t.Errorf("SendResponse: %v", err)
		}
	})

	conn, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.SendRequest(Request{MaxRemaining: 15}); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	res, err := conn.ReadResponse()
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if len(res.ToolCalls) != 1 || res.ToolCalls[0].Name != "read_file" {
		t.Fatalf("unexpected tool calls: %+v", res.ToolCalls)
	}
}
