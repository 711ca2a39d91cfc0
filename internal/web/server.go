package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/nerrad567/heritage-sites/internal/audit"
	"github.com/nerrad567/heritage-sites/internal/auth"
	"github.com/nerrad567/heritage-sites/internal/events"
	"github.com/nerrad567/heritage-sites/internal/heritage"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/config"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/logging"
	"github.com/nerrad567/heritage-sites/internal/location"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker is implemented by components reported on /healthz.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the web server.
type Deps struct {
	Server    config.ServerConfig
	Session   config.SessionConfig
	Catalog   config.CatalogConfig
	Metrics   config.MetricsConfig
	Logger    *logging.Logger
	Sites     heritage.Repository
	Locations location.Repository
	Users     auth.UserRepository
	Audit     audit.Repository
	Events    *events.Publisher        // optional
	Checks    map[string]HealthChecker // "database" is expected
	Version   string
}

// Server is the HTTP server for the catalog.
type Server struct {
	cfg       config.ServerConfig
	session   config.SessionConfig
	catalog   config.CatalogConfig
	metrics   config.MetricsConfig
	logger    *logging.Logger
	sites     heritage.Repository
	locations location.Repository
	users     auth.UserRepository
	audit     audit.Repository
	events    *events.Publisher
	checks    map[string]HealthChecker
	version   string
	templates map[string]*template.Template
	router    http.Handler
	server    *http.Server
	addr      string
}

// New creates a web server with the given dependencies and parses the
// embedded templates. The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Sites == nil || deps.Locations == nil {
		return nil, fmt.Errorf("site and location repositories are required")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if deps.Audit == nil {
		return nil, fmt.Errorf("audit repository is required")
	}
	if deps.Session.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       deps.Server,
		session:   deps.Session,
		catalog:   deps.Catalog,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With("component", "web"),
		sites:     deps.Sites,
		locations: deps.Locations,
		users:     deps.Users,
		audit:     deps.Audit,
		events:    deps.Events,
		checks:    deps.Checks,
		version:   deps.Version,
		templates: tmpl,
	}
	if s.session.CookieName == "" {
		s.session.CookieName = "session"
	}
	s.router = s.buildRouter()
	return s, nil
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listen address and serves HTTP in a background goroutine.
// A bind failure is returned. The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              s.cfg.Address(),
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.ReadTimeout(),
		WriteTimeout:      s.cfg.WriteTimeout(),
		IdleTimeout:       s.cfg.IdleTimeout(),
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		s.server = nil
		return fmt.Errorf("listening on %s: %w", s.cfg.Address(), err)
	}
	s.addr = ln.Addr().String()

	go func() {
		s.logger.Info("web server starting", "address", s.addr)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("web server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listen address once Start has succeeded.
func (s *Server) Addr() string {
	return s.addr
}

// Close gracefully shuts down the server, waiting up to 10 seconds for
// in-flight requests to complete.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("web server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	return nil
}
