// Package server exposes the insight pipeline over HTTP and WebSocket.
// The handler's contract: a well-formed request always gets a usable
// insight back with status 200, no matter what the providers do.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/Hassaanj79/MoneyDesk.co-sub001/cache"
	"github.com/Hassaanj79/MoneyDesk.co-sub001/insight"
	"github.com/Hassaanj79/MoneyDesk.co-sub001/provider"
	"github.com/Hassaanj79/MoneyDesk.co-sub001/store"
)

// DefaultUserID is used when a request does not identify its user and no
// AuthFunc is configured.
const DefaultUserID = "current-user"

// Config configures the server.
type Config struct {
	// Cache is the TTL gate in front of the provider chain. Required.
	Cache *cache.Gate

	// Chain is the provider orchestrator. Required.
	Chain *provider.Chain

	// Events persists generation telemetry. Optional; when nil, events
	// are simply not recorded.
	Events *store.InsightLog

	// AuthFunc validates requests and returns a user ID. If nil, the
	// request body's userId (or DefaultUserID) is trusted as-is.
	AuthFunc func(r *http.Request) (userID string, err error)
}

// Server handles insight requests.
type Server struct {
	config   Config
	upgrader websocket.Upgrader
}

// New creates a server with the given configuration.
func New(cfg Config) *Server {
	return &Server{
		config: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in development
			},
		},
	}
}

// InsightRequest is the POST /api/insights body. Aggregates and DateRange
// are required; everything else has a default.
type InsightRequest struct {
	Aggregates   *insight.Aggregates   `json:"aggregates"`
	DateRange    *insight.DateRange    `json:"dateRange"`
	Currency     string                `json:"currency"`
	UserID       string                `json:"userId"`
	Transactions []insight.Transaction `json:"transactions"`
	Categories   []insight.Category    `json:"categories"`
}

// Handler returns the HTTP handler for all endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/insights", s.handleInsights)
	mux.HandleFunc("/api/insights/history", s.handleHistory)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// Run starts the server on the given address.
func (s *Server) Run(addr string) error {
	log.Printf("Starting insight server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Aggregates == nil || req.DateRange == nil {
		writeError(w, http.StatusBadRequest, "aggregates and dateRange are required")
		return
	}

	userID, ok := s.resolveUser(w, r, req.UserID)
	if !ok {
		return
	}

	result := s.produce(r.Context(), userID, &req)
	s.recordEvent(r.Context(), userID, &req, result)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("Failed to encode insight response: %v", err)
	}
}

// produce runs the full pipeline for a validated request: fingerprint,
// cache gate, provider chain, cache write. The recover guard turns any
// unexpected pipeline failure into direct rule-based synthesis; the
// caller never sees an error.
func (s *Server) produce(ctx context.Context, userID string, req *InsightRequest) (out *insight.Insight) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Insight pipeline failure for user %s: %v", userID, r)
			out = s.lastResort(userID, req)
		}
	}()

	fingerprint := insight.Fingerprint(req.Transactions, *req.Aggregates)
	key := cache.Key(userID, *req.DateRange, req.Currency, fingerprint)

	if hit, ok := s.config.Cache.Get(key); ok {
		fresh := hit.Clone()
		fresh.Cached = true
		return fresh
	}

	generated := s.config.Chain.Generate(ctx, &provider.Request{
		Aggregates:   *req.Aggregates,
		DateRange:    *req.DateRange,
		Currency:     req.Currency,
		UserID:       userID,
		Transactions: req.Transactions,
	})

	s.config.Cache.Set(key, generated, cache.DefaultTTL)
	return generated
}

// lastResort synthesizes directly from the original input, and if even
// that fails, hands back a static degraded payload. Still a success-class
// response either way.
func (s *Server) lastResort(userID string, req *InsightRequest) (out *insight.Insight) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Rule-based synthesis failed for user %s: %v", userID, r)
			out = degradedInsight()
		}
	}()

	var agg insight.Aggregates
	if req.Aggregates != nil {
		agg = *req.Aggregates
	}
	var dateRange insight.DateRange
	if req.DateRange != nil {
		dateRange = *req.DateRange
	}

	out = insight.Synthesize(agg, dateRange, req.Currency, userID)
	out.Fallback = true
	return out
}

// degradedInsight is the hard floor of the availability guarantee.
func degradedInsight() *insight.Insight {
	return &insight.Insight{
		Summary:    "We could not analyze your finances right now. Your data is safe; please try again shortly.",
		Highlights: []string{"Insight generation is temporarily degraded"},
		Recommendations: []insight.Recommendation{
			{
				Title:       "Review your spending regularly",
				Description: "Check your largest expense categories weekly to stay ahead of surprises.",
				Priority:    insight.PriorityMedium,
			},
		},
		Quote:    "Money saved quietly each month beats money budgeted loudly each January.",
		Fallback: true,
		Error:    "insight generation degraded",
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := s.resolveUser(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if s.config.Events == nil {
		json.NewEncoder(w).Encode(map[string]interface{}{"events": []store.Event{}})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := s.config.Events.Recent(r.Context(), userID, limit)
	if err != nil {
		log.Printf("Failed to list insight events: %v", err)
		json.NewEncoder(w).Encode(map[string]interface{}{"events": []store.Event{}})
		return
	}
	if events == nil {
		events = []store.Event{}
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"events": events})
}

// resolveUser applies AuthFunc when configured, otherwise trusts the
// supplied ID, defaulting to DefaultUserID.
func (s *Server) resolveUser(w http.ResponseWriter, r *http.Request, requested string) (string, bool) {
	if s.config.AuthFunc != nil {
		userID, err := s.config.AuthFunc(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return "", false
		}
		return userID, true
	}
	if requested == "" {
		return DefaultUserID, true
	}
	return requested, true
}

// recordEvent persists generation telemetry, best effort.
func (s *Server) recordEvent(ctx context.Context, userID string, req *InsightRequest, result *insight.Insight) {
	if s.config.Events == nil {
		return
	}

	source := "rules"
	switch {
	case result.Cached:
		source = "cache"
	case result.Provider != "":
		source = result.Provider
	}

	err := s.config.Events.Record(ctx, &store.Event{
		UserID:   userID,
		From:     req.DateRange.From,
		To:       req.DateRange.To,
		Currency: req.Currency,
		Source:   source,
		Cached:   result.Cached,
		Fallback: result.Fallback,
	})
	if err != nil {
		log.Printf("Failed to record insight event: %v", err)
	}
}

func writeCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
