// Package web serves the chat page and runs turns over a websocket, one
// session log per connection.
package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"DisasterChat/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

//go:embed templates/index.html
var assets embed.FS

// Turner handles one user message against a session log.
type Turner interface {
	Turn(ctx context.Context, log *session.Log, input string) (string, error)
	NewSession() *session.Log
}

// Inbound is a message sent by the page.
type Inbound struct {
	Content string `json:"content"`
}

// Outbound is a reply frame. Error is set when the turn was aborted.
type Outbound struct {
	Role    session.Role `json:"role,omitempty"`
	Content string       `json:"content,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type Server struct {
	turner   Turner
	logger   *slog.Logger
	engine   *gin.Engine
	upgrader websocket.Upgrader
}

func NewServer(turner Turner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		turner: turner,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}

	tmpl := template.Must(template.New("").ParseFS(assets, "templates/index.html"))

	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())
	r.SetHTMLTemplate(tmpl)

	r.GET("/", s.index)
	r.GET("/ws", s.chat)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	s.engine = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("chat page listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":    "Disaster Response Chatbot",
		"Greeting": session.Greeting,
	})
}

// chat runs one session per connection. Frames are handled one at a time,
// so a turn always finishes before the next message is read.
func (s *Server) chat(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	log := s.turner.NewSession()
	s.logger.Info("chat connection opened", "session_id", log.ID, "remote", c.Request.RemoteAddr)

	for {
		var in Inbound
		if err := conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read ended", "session_id", log.ID, "error", err)
			}
			break
		}
		text := strings.TrimSpace(in.Content)
		if text == "" {
			continue
		}

		out := Outbound{Role: session.RoleAssistant}
		reply, err := s.turner.Turn(c.Request.Context(), log, text)
		if err != nil {
			out = Outbound{Error: err.Error()}
		} else {
			out.Content = reply
		}

		if err := conn.WriteJSON(out); err != nil {
			s.logger.Warn("websocket write failed", "session_id", log.ID, "error", err)
			break
		}
	}

	s.logger.Info("chat connection closed", "session_id", log.ID, "messages", log.Len())
}
