package web

import (
	"encoding/json"
	"net/http"

	"braid/internal/board"
	"braid/internal/export"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server exposes a read-only view of a board for the external canvas shell:
// the snapshot as JSON, a status summary, and an SVG render. It never
// mutates; all writes go through the CLI/TUI.
type Server struct {
	board *board.Board
}

func NewServer(b *board.Board) *Server {
	return &Server{board: b}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		// The browser canvas runs on localhost during development.
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxAge:         300,
	}))

	r.Get("/api/board", s.handleBoard)
	r.Get("/api/status", s.handleStatus)
	r.Get("/board.svg", s.handleSVG)
	return r
}

func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"data": export.NewDocument(s.board.Snapshot())})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"data": s.board.Status()})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write([]byte(export.SVG(s.board.Snapshot(), export.SVGOptions{})))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
