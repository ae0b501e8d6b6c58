package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	sig "github.com/avlowe/watchroom/internal/adapters/signal"
	"github.com/avlowe/watchroom/internal/app"
	"github.com/avlowe/watchroom/internal/config"
	"github.com/avlowe/watchroom/internal/domain"
)

func newTestRouter(t *testing.T) (*gin.Engine, *app.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Mode: "release", AllowedOrigin: "*", ReadLimit: 32768}
	registry := app.NewRegistry(domain.NewCodeAllocator())
	ctl := sig.NewController(registry, cfg.ReadLimit)
	return SetupRouter(context.Background(), cfg, registry, ctl), registry
}

func do(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRootLiveness(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "Hello, world!" {
		t.Errorf("body = %q", w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS origin header = %q, want *", got)
	}
}

func TestOptionsRoot(t *testing.T) {
	r, _ := newTestRouter(t)

	if w := do(r, http.MethodOptions, "/"); w.Code != http.StatusNoContent {
		t.Errorf("OPTIONS / = %d, want 204", w.Code)
	}
}

func TestUnsupportedMethodOnRoot(t *testing.T) {
	r, _ := newTestRouter(t)

	if w := do(r, http.MethodPost, "/"); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST / = %d, want 405", w.Code)
	}
	if w := do(r, http.MethodDelete, "/"); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE / = %d, want 405", w.Code)
	}
}

func TestURLLookup(t *testing.T) {
	r, registry := newTestRouter(t)

	w := do(r, http.MethodGet, "/url/nope!")
	if w.Code != http.StatusBadRequest || w.Body.String() != "Invalid room code" {
		t.Errorf("malformed code: %d %q", w.Code, w.Body.String())
	}

	code := registry.Create("h", domain.ParticipantInfo{Nickname: "ana"}, "https://example.com/ep1")

	// Case-normalized before lookup.
	w = do(r, http.MethodGet, "/url/"+strings.ToLower(string(code)))
	if w.Code != http.StatusOK || w.Body.String() != "https://example.com/ep1" {
		t.Errorf("lookup: %d %q", w.Code, w.Body.String())
	}

	registry.Leave("h")
	w = do(r, http.MethodGet, "/url/"+string(code))
	if w.Code != http.StatusBadRequest || w.Body.String() != "Room does not exist" {
		t.Errorf("destroyed room: %d %q", w.Code, w.Body.String())
	}
}

func TestRoomsData(t *testing.T) {
	r, registry := newTestRouter(t)

	code := registry.Create("h", domain.ParticipantInfo{Nickname: "ana"}, "u1")
	if _, err := registry.Join("g1", domain.ParticipantInfo{Nickname: "bo"}, code); err != nil {
		t.Fatal(err)
	}

	w := do(r, http.MethodGet, "/rooms/data")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var stats app.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.CurrNumRooms != 1 || stats.CurrNumUsers != 2 {
		t.Errorf("stats = %+v, want 1 room, 2 users", stats)
	}
}
