package rpc

import (
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	// ExpiresAt is Unix seconds.
	ExpiresAt int64 `json:"expires_at"`
}

type QueryRequest struct {
	Message string `json:"message"`
}

type QueryResponse struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
	Mode     string   `json:"mode"`
}

// Ping carries no payload in and a status string out.
type (
	PingRequest  = emptypb.Empty
	PingResponse = wrapperspb.StringValue
)
