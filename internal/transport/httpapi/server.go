// Package httpapi is the chi HTTP transport for the chat service.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ollachat/ollachat/internal/domain"
	"github.com/ollachat/ollachat/internal/logger"
	"github.com/ollachat/ollachat/internal/ollama"
	chatuc "github.com/ollachat/ollachat/internal/usecase/chat"
)

// ChatService runs the chat pipeline and opens the relay stream.
type ChatService interface {
	Chat(ctx context.Context, req *domain.ChatRequest) (*chatuc.Result, error)
}

// ModelLister reports the models installed on the inference backend.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ollama.Model, error)
}

// ConversationStore persists whole conversation records.
type ConversationStore interface {
	List() ([]domain.Conversation, error)
	Get(id string) (domain.Conversation, error)
	Save(conv domain.Conversation) (domain.Conversation, error)
	Delete(id string) error
}

// Server holds the HTTP handlers.
type Server struct {
	chat          ChatService
	models        ModelLister
	conversations ConversationStore
	logger        *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(chat ChatService, models ModelLister, conversations ConversationStore, logger *zap.Logger) *Server {
	return &Server{
		chat:          chat,
		models:        models,
		conversations: conversations,
		logger:        logger,
	}
}

// Routes mounts all endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/chat", s.handleChat)
	r.Get("/api/models", s.handleListModels)
	r.Get("/api/conversations", s.handleListConversations)
	r.Post("/api/conversations", s.handleSaveConversation)
	r.Get("/api/conversations/{id}", s.handleGetConversation)
	r.Delete("/api/conversations/{id}", s.handleDeleteConversation)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
}

// handleChat relays the assistant reply as a live text/plain stream.
// Errors are only expressible before the first byte is written; once
// streaming starts the response is committed and a failure just ends it.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePlainError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.chat.Chat(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			writePlainError(w, http.StatusBadRequest, "messages must not be empty")
			return
		}
		log.Error("chat request failed before streaming", zap.Error(err))
		writePlainError(w, http.StatusInternalServerError, "Error processing request")
		return
	}
	defer func() { _ = res.Stream.Close() }()

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("response writer does not support flushing")
		writePlainError(w, http.StatusInternalServerError, "Error processing request")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for {
		chunk, err := res.Stream.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			// Mid-stream upstream failure; the stream just ends.
			log.Warn("relay aborted mid-stream", zap.Error(err))
			return
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			// Downstream disconnected; stop pulling from upstream.
			log.Debug("client disconnected mid-stream", zap.Error(err))
			return
		}
		flusher.Flush()
	}
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.models.ListModels(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to list models", zap.Error(err))
		writeJSONError(w, http.StatusBadGateway, "inference backend unavailable")
		return
	}
	writeJSON(w, http.StatusOK, models)
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := s.conversations.List()
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to list conversations", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

func (s *Server) handleSaveConversation(w http.ResponseWriter, r *http.Request) {
	var conv domain.Conversation
	if err := json.NewDecoder(r.Body).Decode(&conv); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid conversation body")
		return
	}

	saved, err := s.conversations.Save(conv)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to save conversation", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "failed to save conversation")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	conv, err := s.conversations.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			writeJSONError(w, http.StatusNotFound, "conversation not found")
			return
		}
		logger.FromContext(r.Context()).Error("failed to read conversation", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "failed to read conversation")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.conversations.Delete(id); err != nil {
		logger.FromContext(r.Context()).Error("failed to delete conversation", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "failed to delete conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writePlainError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}
