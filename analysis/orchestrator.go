package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mager/cochlea/audio"
	"github.com/mager/cochlea/blob"
	"github.com/mager/cochlea/cochlea"
	"github.com/mager/cochlea/genre"
	"github.com/mager/cochlea/jobstore"
	"github.com/mager/cochlea/promptgen"
	"go.uber.org/zap"
)

// MaxUploadBytes is enforced before any job row is created. Oversized input
// is a synchronous validation failure, never a job error.
const MaxUploadBytes = 16 << 20

var (
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
	ErrEmptyUpload    = errors.New("upload is empty")
)

// Upload is the validated input to one analysis job.
type Upload struct {
	Filename string
	MimeType string
	Data     []byte
	// TaggedBPM is a tempo carried in the upload's metadata, 0 when absent.
	TaggedBPM float64
	// KnownGenre is an externally supplied genre hint, empty when absent.
	KnownGenre string
}

// Orchestrator owns the job state machine: it sequences
// upload -> decode -> extract -> classify -> generate -> persist for each job
// in a detached background task and is the only writer of job rows.
type Orchestrator struct {
	log     *zap.SugaredLogger
	store   jobstore.Store
	blobs   blob.Store
	prompts promptgen.Generator
}

func New(log *zap.SugaredLogger, store jobstore.Store, blobs blob.Store, prompts promptgen.Generator) *Orchestrator {
	return &Orchestrator{log: log, store: store, blobs: blobs, prompts: prompts}
}

// Start validates the upload, creates the pending job row, spawns the
// background task, and returns the job id without waiting for any pipeline
// work. The background task is detached and non-cancelable: there is no
// watchdog, so a hung external call leaves the job in analyzing indefinitely
// (a known limitation kept on purpose).
func (o *Orchestrator) Start(ctx context.Context, up Upload) (string, error) {
	if len(up.Data) > MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrUploadTooLarge, len(up.Data))
	}
	if len(up.Data) == 0 {
		return "", ErrEmptyUpload
	}

	now := time.Now().UTC()
	job := &cochlea.AnalysisJob{
		ID:        uuid.NewString(),
		Filename:  up.Filename,
		Status:    cochlea.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := o.store.Create(ctx, job); err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}

	go o.run(job.ID, up)

	return job.ID, nil
}

type pipelineResult struct {
	features *cochlea.FeatureSet
	prompts  *cochlea.PromptSet
	err      error
}

// run drives one job to its terminal state. The pipeline outcome travels over
// a buffered result channel so the terminal write happens exactly once, in
// one place, whether the pipeline succeeded or failed.
func (o *Orchestrator) run(id string, up Upload) {
	ctx := context.Background()

	results := make(chan pipelineResult, 1)
	go func() {
		fs, ps, err := o.pipeline(ctx, id, up)
		results <- pipelineResult{features: fs, prompts: ps, err: err}
	}()
	res := <-results

	if res.err != nil {
		o.log.Errorw("analysis failed", "job", id, "error", res.err)
		status := cochlea.StatusError
		msg := res.err.Error()
		if err := o.store.Update(ctx, id, jobstore.Update{Status: &status, ErrorMessage: &msg}); err != nil {
			o.log.Errorw("failed to record job error", "job", id, "error", err)
		}
		return
	}

	status := cochlea.StatusDone
	err := o.store.Update(ctx, id, jobstore.Update{
		Status:   &status,
		Features: res.features,
		Prompts:  res.prompts,
	})
	if err != nil {
		o.log.Errorw("failed to record job result", "job", id, "error", err)
		return
	}
	o.log.Infow("analysis done", "job", id, "genre", res.features.GenreHints)
}

// pipeline runs the stages strictly in order. Decode and spectral failures
// are absorbed inside the audio package as fallback values; every error
// returned here is fatal to the job.
func (o *Orchestrator) pipeline(ctx context.Context, id string, up Upload) (*cochlea.FeatureSet, *cochlea.PromptSet, error) {
	analyzing := cochlea.StatusAnalyzing
	if err := o.store.Update(ctx, id, jobstore.Update{Status: &analyzing}); err != nil {
		return nil, nil, fmt.Errorf("mark analyzing: %w", err)
	}

	// Blob upload comes first, and its result is persisted immediately so a
	// crash mid-pipeline still shows where storage succeeded.
	key := id + filepath.Ext(up.Filename)
	put, err := o.blobs.Put(ctx, key, up.Data, up.MimeType)
	if err != nil {
		return nil, nil, fmt.Errorf("store upload: %w", err)
	}
	if err := o.store.Update(ctx, id, jobstore.Update{StorageKey: &put.Key, StorageURL: &put.URL}); err != nil {
		return nil, nil, fmt.Errorf("record storage location: %w", err)
	}

	dec := audio.Decode(up.Data, up.MimeType, up.Filename)
	if dec.Placeholder {
		o.log.Infow("decode degraded to placeholder", "job", id, "codec", dec.Codec)
	}

	bpm := genre.EstimateBPM(up.TaggedBPM, up.Filename, up.KnownGenre, dec.Bitrate)
	fs := audio.ExtractFeatures(dec, bpm, up.Filename)

	cls := genre.Classify(genre.Input{
		BPM:           fs.BPM,
		RMSEnergy:     fs.RMSEnergy,
		CentroidHz:    fs.SpectralCentroidHz,
		EnergyLevel:   fs.EnergyLevel,
		VocalPresence: fs.VocalPresence,
		DrumIntensity: fs.DrumIntensity,
		BassPresence:  fs.BassPresence,
		Filename:      up.Filename,
		KnownGenre:    up.KnownGenre,
	})
	fs.GenreHints = cls.GenreHints
	fs.MoodTags = cls.MoodTags
	fs.UniqueCharacteristics = cls.UniqueCharacteristics

	ps, err := o.prompts.Generate(ctx, fs)
	if err != nil {
		return nil, nil, fmt.Errorf("generate prompts: %w", err)
	}

	return fs, ps, nil
}

// ProvideOrchestrator wires the orchestrator from its collaborators.
func ProvideOrchestrator(log *zap.SugaredLogger, store jobstore.Store, blobs blob.Store, prompts promptgen.Generator) *Orchestrator {
	return New(log, store, blobs, prompts)
}

var Options = ProvideOrchestrator
