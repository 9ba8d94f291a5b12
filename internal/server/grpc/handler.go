package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
	"github.com/dmitrijs2005/ragkeeper/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	tok, err := s.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "incorrect username or password")
		}
		s.logger.Error(ctx, "login failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &rpc.LoginResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresAt:   tok.ExpiresAt.Unix(),
	}, nil
}

func (s *GRPCServer) Query(ctx context.Context, req *rpc.QueryRequest) (*rpc.QueryResponse, error) {
	ans, err := s.query.Handle(ctx, tokenFromContext(ctx), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			return nil, status.Error(codes.Unauthenticated, msgBadToken)
		case errors.Is(err, common.ErrEmptyQuery):
			return nil, status.Error(codes.InvalidArgument, common.ErrEmptyQuery.Error())
		default:
			s.logger.Error(ctx, "query failed", "error", err)
			return nil, status.Error(codes.Internal, "internal error")
		}
	}

	sources := ans.Sources
	if sources == nil {
		sources = []string{}
	}
	return &rpc.QueryResponse{Response: ans.Text, Sources: sources, Mode: string(ans.Mode)}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return wrapperspb.String("ok"), nil
}
