package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
	"github.com/dmitrijs2005/ragkeeper/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const tokenKey ctxKey = "accessToken"

const msgBadToken = "could not validate credentials"

// publicMethods may be called without a token.
var publicMethods = map[string]bool{
	rpc.LoginMethod: true,
	rpc.PingMethod:  true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	token := bearerFromMetadata(ctx)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, msgBadToken)
	}

	p, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Info(ctx, "token rejected", "method", info.FullMethod, "reason", err.Error())
		return nil, status.Error(codes.Unauthenticated, msgBadToken)
	}

	ctx = context.WithValue(ctx, tokenKey, token)
	s.logger.Debug(ctx, "authenticated call", "method", info.FullMethod, "user", p.Identity)
	return handler(ctx, req)
}

func bearerFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return ""
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(values[0]), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

func tokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}
