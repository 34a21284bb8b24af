// Package preview serves the generated build tree over loopback HTTP so
// the designer can display the site before publishing.
package preview

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server is the local preview server. It starts once per process on an
// OS-assigned loopback port and serves whatever is currently in the
// build directory - Generate's file replacement changes the served
// content, not a server restart.
type Server struct {
	echo     *echo.Echo
	port     int
	buildDir string

	mu        sync.Mutex
	lastNonce int64
}

// New creates a preview server over buildDir. The listener is bound
// immediately so the port is known before Start, but no requests are
// served until Start is called.
func New(buildDir string) (*Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to bind preview listener: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// Identical paths return different bytes across generate cycles, so
	// the server must forbid client-side caching.
	e.Use(noCache)
	e.Use(middleware.Recover())
	e.Static("/", buildDir)
	e.Listener = listener

	return &Server{
		echo:     e,
		port:     listener.Addr().(*net.TCPAddr).Port,
		buildDir: buildDir,
	}, nil
}

func noCache(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-store")
		return next(c)
	}
}

// Start begins serving in a background goroutine and returns once the
// goroutine is launched. The listener is already bound, so requests
// arriving immediately after Start are not dropped.
func (s *Server) Start() {
	go func() {
		if err := s.echo.Start(""); err != nil && err != http.ErrServerClosed {
			log.Printf("[ERROR] Preview server stopped: error=%v", err)
		}
	}()
	log.Printf("[INFO] Preview server started: addr=127.0.0.1:%d dir=%s", s.port, s.buildDir)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Port returns the OS-assigned listen port.
func (s *Server) Port() int { return s.port }

// CurrentURL returns the preview URL with a fresh cache-busting nonce.
// The nonce is derived from the current time and strictly increases
// across calls, so a consumer reloading the URL never sees a stale
// cached page even within the same second.
func (s *Server) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce := time.Now().Unix()
	if nonce <= s.lastNonce {
		nonce = s.lastNonce + 1
	}
	s.lastNonce = nonce

	return fmt.Sprintf("http://127.0.0.1:%d/?%d", s.port, nonce)
}
