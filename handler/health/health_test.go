package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mager/cochlea/jobstore"
	"github.com/mager/cochlea/logger"
)

func TestHealthcheck(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewHealthHandler(log, jobstore.NewMemoryStore())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Server || !resp.Store {
		t.Errorf("health: got %+v", resp)
	}
}

func TestHealthcheckNilStore(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewHealthHandler(log, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var resp Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Store {
		t.Error("store reported healthy with no store wired")
	}
}
