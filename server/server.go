// Copyright 2026 Jovian Atlas
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jovianatlas/moonatlas/chat"
	"github.com/jovianatlas/moonatlas/telemetry"
)

// Server exposes the chat orchestrator over HTTP. The orchestrator may be
// nil, in which case /chat reports service unavailable; the health
// endpoints still serve.
type Server struct {
	engine       *gin.Engine
	orchestrator *chat.Orchestrator
	observer     *telemetry.Observer
	chatModel    string
	addr         string
	corsOrigins  []string
	logger       *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithListenAddr sets the listen address.
// Default is ":8000".
func WithListenAddr(addr string) Option {
	return func(s *Server) error {
		if addr != "" {
			s.addr = addr
		}
		return nil
	}
}

// WithObserver attaches a telemetry observer. Without one, interactions
// are not recorded.
func WithObserver(observer *telemetry.Observer) Option {
	return func(s *Server) error {
		s.observer = observer
		return nil
	}
}

// WithChatModel sets the model name recorded in telemetry.
func WithChatModel(model string) Option {
	return func(s *Server) error {
		s.chatModel = model
		return nil
	}
}

// WithCORSOrigins sets the allowed CORS origins. Default allows any
// origin, matching the development posture of the reference deployment.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) error {
		s.corsOrigins = origins
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates the HTTP server. A nil orchestrator is accepted and
// puts the chat endpoint into service-unavailable mode.
func NewServer(orchestrator *chat.Orchestrator, opts ...Option) (*Server, error) {
	s := &Server{
		orchestrator: orchestrator,
		addr:         ":8000",
		logger:       slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.logger = s.logger.With("component", "server")
	s.engine = s.buildEngine()
	return s, nil
}

func (s *Server) buildEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.corsOrigins) > 0 {
		corsConfig.AllowOrigins = s.corsOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	engine.Use(cors.New(corsConfig))

	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)
	engine.POST("/chat", s.handleChat)
	return engine
}

// Handler returns the underlying HTTP handler, chiefly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
