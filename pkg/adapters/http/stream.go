package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/dialcode/internal/dto"
	"github.com/aretw0/dialcode/pkg/domain"
)

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Subscribers returns the number of open streams for a session.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			slog.Warn("SSE: Client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every engine event to the
// streams of its session.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnScreenEnter: func(ctx context.Context, e *domain.ScreenEvent) {
			sm.publish(e.SessionID, e)
		},
		OnChoiceRejected: func(ctx context.Context, e *domain.ChoiceEvent) {
			sm.publish(e.SessionID, e)
		},
		OnComplete: func(ctx context.Context, e *domain.CompleteEvent) {
			sm.publish(e.SessionID, e)
		},
		OnRequestFailed: func(ctx context.Context, e *domain.FailureEvent) {
			sm.publish(e.SessionID, e)
		},
	}
}

func (sm *StreamManager) publish(sessionID string, event any) {
	if sessionID == "" || sm.Subscribers(sessionID) == 0 {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("SSE: Failed to encode event", "session_id", sessionID, "err", err)
		return
	}
	sm.Broadcast(sessionID, string(payload))
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, dto.NewErrorResponse(domain.ErrMissingSessionID))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Streaming not supported"})
		return
	}

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		for _, field := range strings.Split(watch, ",") {
			watchList = append(watchList, strings.TrimSpace(field))
		}
	}

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: Subscribed to session events", "session_id", sessionID)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !matchesWatch(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func matchesWatch(msg string, watchList []string) bool {
	var base domain.EventBase
	if err := json.Unmarshal([]byte(msg), &base); err != nil {
		return true
	}
	for _, t := range watchList {
		if string(base.Type) == t {
			return true
		}
	}
	return false
}
