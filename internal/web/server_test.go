package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"braid/internal/board"
	"braid/internal/model"
	"braid/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()
	b, err := board.Open(ctx, store.Store{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("open board: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	if _, _, err := b.CreateThread(ctx, model.NodeTypeIdea, 0, "hook"); err != nil {
		t.Fatalf("seed thread: %v", err)
	}
	return NewServer(b)
}

func TestBoardEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/board", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data struct {
			TotalSlots int          `json:"totalSlots"`
			Nodes      []model.Node `json:"nodes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.TotalSlots != 2 || len(body.Data.Nodes) != 2 {
		t.Fatalf("body = %+v; want 2 slots, 2 nodes", body.Data)
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data board.Status `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Threads != 1 || body.Data.Nodes != 2 {
		t.Fatalf("status = %+v", body.Data)
	}
}

func TestSVGEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/board.svg", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("content type = %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "</svg>") {
		t.Fatalf("body is not svg")
	}
}
