// Package grpc is the gRPC transport for AssistantService.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/ragkeeper/internal/logging"
	"github.com/dmitrijs2005/ragkeeper/internal/rpc"
	"github.com/dmitrijs2005/ragkeeper/internal/server/auth"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
	"google.golang.org/grpc"
)

type LoginService interface {
	Login(ctx context.Context, userName, password string) (*auth.Token, error)
}

type QueryService interface {
	Handle(ctx context.Context, token, query string) (*models.Answer, error)
}

type TokenVerifier interface {
	Verify(token string) (*auth.Principal, error)
}

type GRPCServer struct {
	address string
	auth    LoginService
	query   QueryService
	tokens  TokenVerifier
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, as LoginService, qs QueryService, tv TokenVerifier) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    as,
		query:   qs,
		tokens:  tv,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	rpc.RegisterAssistantServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
