// Package chat runs the request pipeline: classify the query, gather
// search context, assemble the system prompt, and open the relay stream.
package chat

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ollachat/ollachat/internal/classify"
	"github.com/ollachat/ollachat/internal/domain"
	"github.com/ollachat/ollachat/internal/prompt"
)

// defaultModel is used when the request does not name one.
const defaultModel = "llama2"

// Service handles chat requests. Stateless across requests; every
// request builds its own prompt and opens its own upstream stream.
type Service struct {
	backend  Backend
	searcher Searcher
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a chat service.
func New(backend Backend, searcher Searcher, logger *zap.Logger) *Service {
	return &Service{
		backend:  backend,
		searcher: searcher,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Result is an open relay stream plus pipeline metadata.
type Result struct {
	Stream          TokenStream
	Model           string
	SearchAttempted bool
	SearchSucceeded bool
}

// Chat validates the request, augments it with search context when the
// query needs live data, and opens the relay. The returned stream is
// live; the caller owns it and must Close it.
func (s *Service) Chat(ctx context.Context, req *domain.ChatRequest) (*Result, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, fmt.Errorf("%w: messages must not be empty", domain.ErrInvalidRequest)
	}

	model := req.Model
	if model == "" {
		model = defaultModel
	}

	query := req.LastUserMessage()
	needsLive := classify.NeedsLiveData(query)

	var searchContext string
	var found bool
	if needsLive {
		searchContext, found = s.searcher.SearchWeb(ctx, query, req.Location)
		if !found {
			s.logger.Info("search exhausted, answering without live context",
				zap.String("query", query))
		}
	}

	systemPrompt := prompt.Assemble(prompt.Input{
		Language:      req.Language,
		Location:      req.Location,
		NeedsLiveData: needsLive,
		SearchContext: searchContext,
		Now:           s.now(),
	})

	messages := make([]domain.Message, 0, len(req.Messages)+1)
	messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: systemPrompt})
	messages = append(messages, req.Messages...)

	stream, err := s.backend.Chat(ctx, model, messages)
	if err != nil {
		return nil, fmt.Errorf("open relay: %w", err)
	}

	return &Result{
		Stream:          stream,
		Model:           model,
		SearchAttempted: needsLive,
		SearchSucceeded: found,
	}, nil
}
