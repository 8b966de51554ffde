package chat

import (
	"context"

	"github.com/ollachat/ollachat/internal/domain"
)

// TokenStream is a finite, non-restartable sequence of assistant text
// fragments. Recv returns io.EOF after the last fragment; Close
// releases the underlying read handle and must always be called.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

// Backend opens a streaming chat request against the inference backend.
type Backend interface {
	Chat(ctx context.Context, model string, messages []domain.Message) (TokenStream, error)
}

// Searcher gathers formatted web search context for a query. The
// boolean is false when nothing was found, which is not an error.
type Searcher interface {
	SearchWeb(ctx context.Context, query string, loc *domain.Location) (string, bool)
}
