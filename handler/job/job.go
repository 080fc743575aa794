package job

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mager/cochlea/cochlea"
	"github.com/mager/cochlea/jobstore"
	"go.uber.org/zap"
)

// GetJobHandler is an http.Handler that reports the state of one analysis
// job. Callers poll it at their own interval; there is no push channel.
type GetJobHandler struct {
	log   *zap.SugaredLogger
	store jobstore.Store
}

func (*GetJobHandler) Pattern() string {
	return "/job"
}

// NewGetJobHandler builds a new GetJobHandler.
func NewGetJobHandler(log *zap.SugaredLogger, store jobstore.Store) *GetJobHandler {
	return &GetJobHandler{
		log:   log,
		store: store,
	}
}

type GetJobResponse struct {
	Job cochlea.AnalysisJob `json:"job"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Get job
// @Summary Get analysis job by ID
// @Description Poll the status and results of an analysis job
// @Produce json
// @Success 200 {object} GetJobResponse
// @Router /job [get]
// @Param id query string true "Job ID"
func (h *GetJobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := r.URL.Query().Get("id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{Error: "missing id"})
		return
	}

	job, err := h.store.Get(r.Context(), id)
	if errors.Is(err, jobstore.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errorResponse{Error: "job not found"})
		return
	}
	if err != nil {
		h.log.Errorw("failed to fetch job", "job", id, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errorResponse{Error: "failed to fetch job"})
		return
	}

	json.NewEncoder(w).Encode(GetJobResponse{Job: *job})
}

// ListJobsHandler is an http.Handler returning recently completed jobs.
type ListJobsHandler struct {
	log   *zap.SugaredLogger
	store jobstore.Store
}

func (*ListJobsHandler) Pattern() string {
	return "/jobs"
}

// NewListJobsHandler builds a new ListJobsHandler.
func NewListJobsHandler(log *zap.SugaredLogger, store jobstore.Store) *ListJobsHandler {
	return &ListJobsHandler{
		log:   log,
		store: store,
	}
}

type ListJobsResponse struct {
	Jobs []*cochlea.AnalysisJob `json:"jobs"`
}

const defaultListLimit = 20

// List jobs
// @Summary List completed analysis jobs
// @Description Completed jobs ordered newest first
// @Produce json
// @Success 200 {object} ListJobsResponse
// @Router /jobs [get]
// @Param limit query int false "Max results"
func (h *ListJobsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultListLimit
	}

	jobs, err := h.store.ListDone(r.Context(), limit)
	if err != nil {
		h.log.Errorw("failed to list jobs", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errorResponse{Error: "failed to list jobs"})
		return
	}
	if jobs == nil {
		jobs = []*cochlea.AnalysisJob{}
	}

	json.NewEncoder(w).Encode(ListJobsResponse{Jobs: jobs})
}
