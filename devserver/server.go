// Package devserver serves the company profile REST API the console talks
// to, backed by gorm.
//
// It is meant for development and tests: every response is wrapped in the
// {status, msg, data} envelope and lists are paginated the same way as the
// production backend.
package devserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	servertiming "github.com/mitchellh/go-server-timing"
)

// Server is the development API server.
type Server struct {
	cfg    Config
	store  *store
	engine *gin.Engine
	logger *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger, the standard error by default.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New opens the database of cfg and builds the routes.
func New(cfg Config, opts ...Option) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, logger: log.New(os.Stderr, "devserver: ", log.LstdFlags)}
	for _, opt := range opts {
		opt(s)
	}
	st, err := openStore(cfg.Database)
	if err != nil {
		return nil, err
	}
	s.store = st
	if cfg.Seed {
		if err := s.seed(context.Background()); err != nil {
			st.close()
			return nil, err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(traceID(), requestLog(s.logger), recovery(s.logger))
	s.engine.NoRoute(func(c *gin.Context) { fail(c, http.StatusNotFound, "Not Found") })
	s.routes(s.engine.Group(cfg.Prefix))
	return s, nil
}

func (s *Server) routes(r *gin.RouterGroup) {
	for _, p := range []string{"/companies", "/companies/"} {
		r.GET(p, s.listCompanies)
		r.POST(p, s.createCompany)
	}
	r.GET("/companies/:id", s.getCompany)
	r.PUT("/companies/:id", s.updateCompany)
	r.DELETE("/companies/:id", s.deleteCompany)

	r.POST("/financial-statements/upload", s.uploadStatement)
	r.POST("/financial-statements/upload/", s.uploadStatement)
	r.GET("/financial-statements/chart", s.chart)
}

// Handler returns the server's http.Handler, reporting the database time
// in the Server-Timing header.
func (s *Server) Handler() http.Handler {
	return servertiming.Middleware(s.engine, nil)
}

// Addr returns the configured listening address.
func (s *Server) Addr() string { return s.cfg.Addr }

// Base returns the API base URL to give to the console.
func (s *Server) Base() string { return "http://" + s.cfg.Addr + s.cfg.Prefix }

// Close releases the database.
func (s *Server) Close() error { return s.store.close() }

// ListenAndServe serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			s.logger.Printf("shutdown: %v", err)
		}
	}()
	s.logger.Printf("serving %s", s.Base())
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}
