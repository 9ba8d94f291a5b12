// Package httpapi is the REST transport: login, query and health endpoints
// routed with chi.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ragkeeper/internal/logging"
	"github.com/dmitrijs2005/ragkeeper/internal/server/auth"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 20

type LoginService interface {
	Login(ctx context.Context, userName, password string) (*auth.Token, error)
}

type QueryService interface {
	Handle(ctx context.Context, token, query string) (*models.Answer, error)
}

type HTTPServer struct {
	address string
	logger  logging.Logger
	auth    LoginService
	query   QueryService
}

func NewHTTPServer(address string, l logging.Logger, a LoginService, q QueryService) *HTTPServer {
	return &HTTPServer{
		address: address,
		logger:  l.With("module", "http_server"),
		auth:    a,
		query:   q,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
