package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed or empty chat request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrConversationNotFound signals a missing conversation record.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrBackendUnavailable signals that the inference backend could not
	// be reached or refused the request. Fatal for the request, no retry.
	ErrBackendUnavailable = errors.New("inference backend unavailable")
	// ErrProviderFailed signals a search provider failure. Recovered by
	// the orchestrator, never surfaced to the caller.
	ErrProviderFailed = errors.New("search provider failed")
)
