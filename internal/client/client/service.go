package client

import (
	"context"

	"github.com/dmitrijs2005/ragkeeper/internal/rpc"
)

type Client interface {
	Close() error
	Login(ctx context.Context, username string, password []byte) error
	Logout()
	Query(ctx context.Context, question string) (*rpc.QueryResponse, error)
	Ping(ctx context.Context) error
}
