package job

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mager/cochlea/cochlea"
	"github.com/mager/cochlea/jobstore"
	"github.com/mager/cochlea/logger"
)

func seedStore(t *testing.T) jobstore.Store {
	t.Helper()
	store := jobstore.NewMemoryStore()
	base := time.Now()
	jobs := []*cochlea.AnalysisJob{
		{ID: "done-new", Filename: "a.wav", Status: cochlea.StatusDone, CreatedAt: base},
		{ID: "done-old", Filename: "b.wav", Status: cochlea.StatusDone, CreatedAt: base.Add(-time.Hour)},
		{ID: "pending", Filename: "c.wav", Status: cochlea.StatusPending, CreatedAt: base},
	}
	for _, j := range jobs {
		if err := store.Create(context.Background(), j); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestGetJobFound(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewGetJobHandler(log, seedStore(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/job?id=done-new", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body %s", w.Code, w.Body.String())
	}
	var resp GetJobResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Job.ID != "done-new" || resp.Job.Status != cochlea.StatusDone {
		t.Errorf("job: got %+v", resp.Job)
	}
}

func TestGetJobNotFound(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewGetJobHandler(log, seedStore(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/job?id=missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestGetJobMissingID(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewGetJobHandler(log, seedStore(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/job", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestListJobsDoneOnlyNewestFirst(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewListJobsHandler(log, seedStore(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var resp ListJobsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Jobs) != 2 {
		t.Fatalf("jobs: got %d, want the 2 done jobs", len(resp.Jobs))
	}
	if resp.Jobs[0].ID != "done-new" || resp.Jobs[1].ID != "done-old" {
		t.Errorf("order: got %s, %s", resp.Jobs[0].ID, resp.Jobs[1].ID)
	}
}

func TestListJobsHonorsLimit(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewListJobsHandler(log, seedStore(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs?limit=1", nil))

	var resp ListJobsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Jobs) != 1 || resp.Jobs[0].ID != "done-new" {
		t.Errorf("limited list: got %+v", resp.Jobs)
	}
}

func TestListJobsEmptyStoreReturnsEmptyArray(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewListJobsHandler(log, jobstore.NewMemoryStore())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs", nil))

	if got := w.Body.String(); got != "{\"jobs\":[]}\n" {
		t.Errorf("body: got %q, want empty array not null", got)
	}
}
