package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"DisasterChat/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTurner struct {
	mu       sync.Mutex
	sessions int
	inputs   []string
	fail     bool
}

func (f *fakeTurner) NewSession() *session.Log {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions++
	return session.New()
}

func (f *fakeTurner) Turn(ctx context.Context, log *session.Log, input string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	if f.fail {
		return "", errors.New("provider initialization failed: GROQ_API_KEY not set")
	}
	reply := "echo: " + input
	log.AppendTurn(input, reply)
	return reply, nil
}

func newTestServer(t *testing.T, turner Turner) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(turner, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestIndexRendersGreeting(t *testing.T) {
	srv := newTestServer(t, &fakeTurner{})

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	page := string(body)
	if !strings.Contains(page, session.Greeting) || !strings.Contains(page, "Disaster Response Chatbot") {
		t.Errorf("page missing greeting or title:\n%s", page)
	}
	if !strings.Contains(page, `class="chat-container"`) {
		t.Error("page missing chat bubble markup")
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeTurner{})
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "healthy") {
		t.Errorf("health = %d %s", resp.StatusCode, body)
	}
}

func TestChatTurns(t *testing.T) {
	turner := &fakeTurner{}
	conn := dial(t, newTestServer(t, turner))

	for _, text := range []string{"weather in Paris", "How do I prepare for a flood?"} {
		if err := conn.WriteJSON(Inbound{Content: text}); err != nil {
			t.Fatal(err)
		}
		var out Outbound
		if err := conn.ReadJSON(&out); err != nil {
			t.Fatal(err)
		}
		if out.Role != session.RoleAssistant || out.Content != "echo: "+text || out.Error != "" {
			t.Errorf("reply = %+v", out)
		}
	}

	turner.mu.Lock()
	defer turner.mu.Unlock()
	if turner.sessions != 1 {
		t.Errorf("sessions = %d, want one per connection", turner.sessions)
	}
	if len(turner.inputs) != 2 {
		t.Errorf("turns = %d, want 2", len(turner.inputs))
	}
}

func TestChatSkipsEmptyMessages(t *testing.T) {
	turner := &fakeTurner{}
	conn := dial(t, newTestServer(t, turner))

	conn.WriteJSON(Inbound{Content: ""})
	conn.WriteJSON(Inbound{Content: " \t\n "})
	conn.WriteJSON(Inbound{Content: "  hi  "})

	var out Outbound
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatal(err)
	}
	if out.Content != "echo: hi" {
		t.Errorf("reply = %+v", out)
	}
	turner.mu.Lock()
	defer turner.mu.Unlock()
	if len(turner.inputs) != 1 || turner.inputs[0] != "hi" {
		t.Errorf("turner inputs = %q, want only the trimmed %q", turner.inputs, "hi")
	}
}

func TestChatAbortedTurn(t *testing.T) {
	conn := dial(t, newTestServer(t, &fakeTurner{fail: true}))

	if err := conn.WriteJSON(Inbound{Content: "hello"}); err != nil {
		t.Fatal(err)
	}
	var out Outbound
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatal(err)
	}
	if out.Error == "" || out.Content != "" {
		t.Errorf("expected error frame, got %+v", out)
	}
}
