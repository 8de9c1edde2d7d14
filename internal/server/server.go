// Package server exposes the simulation over websockets: one independent
// session per connection, commands in, state payloads out.
package server

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/san-kum/bouncelab/internal/config"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // single-user tool, no cross-origin concerns
	},
}

// Env is the server's process environment, loaded from .env when present.
type Env struct {
	Port      string
	StaticDir string
}

func LoadEnv() Env {
	godotenv.Load()

	env := Env{
		Port:      os.Getenv("BOUNCELAB_PORT"),
		StaticDir: os.Getenv("BOUNCELAB_STATIC_DIR"),
	}
	if env.Port == "" {
		env.Port = "8080"
	}
	return env
}

// Server wires the hub into an HTTP layer. ctx is the lifetime of every
// client loop; Shutdown cancels it.
type Server struct {
	hub    *Hub
	env    Env
	router *gin.Engine
	ctx    context.Context
	cancel context.CancelFunc
}

func New(cfg *config.Config, env Env) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		hub:    NewHub(cfg),
		env:    env,
		ctx:    ctx,
		cancel: cancel,
	}

	router := gin.Default()
	router.GET("/healthz", s.handleHealth)
	router.GET("/ws", s.handleWebSocket)
	if env.StaticDir != "" {
		router.Static("/app", env.StaticDir)
	}
	s.router = router

	return s
}

func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"clients": s.hub.Count(),
	})
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}
	// Serve blocks for the connection's lifetime; the session dies with it.
	s.hub.Serve(s.ctx, conn)
}

// Shutdown stops every client loop. The HTTP listener is torn down by the
// process; this unblocks the per-connection goroutines.
func (s *Server) Shutdown() {
	s.cancel()
}

// Run blocks serving HTTP until the listener fails.
func (s *Server) Run() error {
	log.Printf("[SRV] listening on :%s", s.env.Port)
	return s.router.Run(":" + s.env.Port)
}
