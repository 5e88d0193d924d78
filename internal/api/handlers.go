package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/yegors/flightboard/internal/board"
	"github.com/yegors/flightboard/pkg/logger"
)

// Handler serves the read-only status endpoints
type Handler struct {
	board  *board.Service
	logger *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(boardService *board.Service, logger *logger.Logger) *Handler {
	return &Handler{
		board:  boardService,
		logger: logger.Named("api-handler"),
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// statusResponse describes the current state of the updater
type statusResponse struct {
	Airport      string `json:"airport"`
	HasSnapshot  bool   `json:"has_snapshot"`
	FlightCount  int    `json:"flight_count"`
	NumPages     int    `json:"num_pages"`
	BoardVisible bool   `json:"board_visible"`
}

// GetStatus handles GET /api/v1/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Airport: h.board.AirportCode(),
	}
	if snapshot := h.board.Latest(); snapshot != nil {
		resp.HasSnapshot = true
		resp.FlightCount = snapshot.FlightCount()
		resp.NumPages = snapshot.NumPages
	}
	if _, ok := h.board.CurrentBoard(); ok {
		resp.BoardVisible = true
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// GetBoard handles GET /api/v1/board
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	boardData, ok := h.board.CurrentBoard()
	if !ok {
		h.writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no flight data available yet",
		})
		return
	}
	h.writeJSON(w, http.StatusOK, boardData)
}
