package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
	"github.com/dmitrijs2005/ragkeeper/internal/logging"
	"github.com/dmitrijs2005/ragkeeper/internal/server/auth"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
	"github.com/dmitrijs2005/ragkeeper/internal/server/policy"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Principal, error)
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, role policy.Role, k int) []models.ScoredPassage
}

type Answerer interface {
	Answer(ctx context.Context, query string, passages []models.ScoredPassage) models.Answer
}

// QueryService answers a question with passages the token's role may read.
type QueryService struct {
	tokens    TokenVerifier
	retriever Retriever
	answerer  Answerer
	topK      int
	log       logging.Logger
}

func NewQueryService(tokens TokenVerifier, r Retriever, a Answerer, topK int, log logging.Logger) *QueryService {
	if log == nil {
		log = logging.Nop()
	}
	return &QueryService{tokens: tokens, retriever: r, answerer: a, topK: topK, log: log}
}

// Handle verifies token, retrieves for the token's role and answers. The only
// errors are *auth.AuthError and, after successful verification,
// common.ErrEmptyQuery for a blank query. Retrieval and generation failures
// degrade the answer instead.
func (s *QueryService) Handle(ctx context.Context, token, query string) (*models.Answer, error) {
	p, err := s.tokens.Verify(token)
	if err != nil {
		s.log.Info(ctx, "token rejected", "reason", err.Error())
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.ErrEmptyQuery
	}

	log := s.log.With("user", p.Identity, "role", string(p.Role))
	passages := s.retriever.Retrieve(ctx, query, p.Role, s.topK)
	ans := s.answerer.Answer(ctx, query, passages)

	log.Info(ctx, "query answered", "passages", len(passages), "mode", string(ans.Mode))
	return &ans, nil
}
