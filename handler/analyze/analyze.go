package analyze

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/mager/cochlea/analysis"
	"github.com/mager/cochlea/cochlea"
	"go.uber.org/zap"
)

// AnalyzeHandler is an http.Handler that accepts an audio upload and starts
// an analysis job.
type AnalyzeHandler struct {
	log  *zap.SugaredLogger
	orch *analysis.Orchestrator
}

func (*AnalyzeHandler) Pattern() string {
	return "/analyze"
}

// NewAnalyzeHandler builds a new AnalyzeHandler.
func NewAnalyzeHandler(log *zap.SugaredLogger, orch *analysis.Orchestrator) *AnalyzeHandler {
	return &AnalyzeHandler{
		log:  log,
		orch: orch,
	}
}

type AnalyzeResponse struct {
	JobID  string            `json:"job_id"`
	Status cochlea.JobStatus `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Start analysis
// @Summary Start analysis of an uploaded audio file
// @Description Accepts a multipart upload and returns a job id to poll
// @Accept mpfd
// @Produce json
// @Success 202 {object} AnalyzeResponse
// @Router /analyze [post]
// @Param file formData file true "Audio file"
// @Param genre formData string false "Known genre hint"
// @Param bpm formData number false "Tagged BPM"
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	// Allow one byte past the limit through so the orchestrator's size check
	// rejects with a proper validation error instead of a truncated read.
	r.Body = http.MaxBytesReader(w, r.Body, analysis.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(analysis.MaxUploadBytes + 1024*1024); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	taggedBPM, _ := strconv.ParseFloat(r.FormValue("bpm"), 64)

	up := analysis.Upload{
		Filename:   header.Filename,
		MimeType:   header.Header.Get("Content-Type"),
		Data:       data,
		TaggedBPM:  taggedBPM,
		KnownGenre: r.FormValue("genre"),
	}

	jobID, err := h.orch.Start(r.Context(), up)
	if errors.Is(err, analysis.ErrUploadTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if errors.Is(err, analysis.ErrEmptyUpload) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.log.Errorw("failed to start analysis", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start analysis")
		return
	}

	h.log.Infow("analysis started", "job", jobID, "filename", header.Filename, "bytes", len(data))

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(AnalyzeResponse{JobID: jobID, Status: cochlea.StatusPending})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
