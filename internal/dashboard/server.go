// Package dashboard implements `fangs serve` (SPEC_FULL.md §4): a
// read-only, single-repository live view of log/status/branches, pushed
// to connected browsers over WebSocket whenever internal/watch reports a
// change.
package dashboard

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mark-oise/fangs/internal/repo"
	"github.com/mark-oise/fangs/internal/watch"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	defaultRateLimit  = 100
	defaultRateBurst  = 200
	defaultRateWindow = time.Second
)

// Server serves a live dashboard for a single opened repository.
type Server struct {
	repo   *repo.Repository
	addr   string
	logger *slog.Logger
	tmpl   *template.Template

	rateLimiter *rateLimiter
	httpServer  *http.Server
	watcher     *watch.Watcher

	clientsMu sync.RWMutex
	clients   map[*wsClient]struct{}

	wg sync.WaitGroup
}

// NewServer constructs a Server ready to be started with Start. addr is an
// HTTP listen address such as "localhost:7777".
func NewServer(r *repo.Repository, addr string) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	w, err := watch.New(r.Root, r.FangsDir)
	if err != nil {
		return nil, err
	}

	return &Server{
		repo:        r,
		addr:        addr,
		logger:      slog.Default().With("component", "dashboard"),
		tmpl:        tmpl,
		rateLimiter: newRateLimiter(defaultRateLimit, defaultRateBurst, defaultRateWindow),
		watcher:     w,
		clients:     make(map[*wsClient]struct{}),
	}, nil
}

// Start runs the HTTP listener and the filesystem watcher together until
// ctx is cancelled or the listener fails; the other is then stopped in
// turn. Watcher errors are logged and do not stop the server.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/state", s.rateLimiter.middleware(s.handleState))
	mux.HandleFunc("/ws", s.rateLimiter.middleware(s.handleWebSocket))

	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      requestLogger(s.logger, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // WebSocket connections are long-lived.
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("dashboard listening", "addr", "http://"+s.addr)
		err := s.httpServer.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})

	g.Go(func() error {
		s.watcher.Run(gctx)
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case err := <-s.watcher.Errors:
				s.logger.Error("watch error", "err", err)
			case <-s.watcher.Events:
				s.broadcastState()
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		s.Shutdown()
		return nil
	})

	return g.Wait()
}

// Shutdown stops the HTTP listener and the rate limiter's cleanup
// goroutine, and closes every connected WebSocket client.
func (s *Server) Shutdown() {
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("dashboard shutdown error", "err", err)
		}
	}
	s.rateLimiter.Close()

	s.clientsMu.Lock()
	for c := range s.clients {
		c.close()
	}
	s.clients = make(map[*wsClient]struct{})
	s.clientsMu.Unlock()
}

// templatesDir exposes the embedded FS for callers that want to serve
// static assets alongside the template (none yet: the dashboard inlines
// its CSS/JS directly in index.html).
func templatesDir() fs.FS { return templateFS }
