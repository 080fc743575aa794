package jobstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mager/cochlea/cochlea"
	"github.com/mager/cochlea/config"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no job exists for the requested id.
var ErrNotFound = errors.New("jobstore: job not found")

// Update is a partial field-set applied to an existing job. Nil fields are
// left untouched; last write wins per field.
type Update struct {
	Status       *cochlea.JobStatus
	StorageKey   *string
	StorageURL   *string
	Features     *cochlea.FeatureSet
	Prompts      *cochlea.PromptSet
	ErrorMessage *string
}

// Store persists analysis jobs. Jobs are single-writer: only the background
// task owning a job id mutates it, so implementations need no locking beyond
// their own internal consistency.
type Store interface {
	Create(ctx context.Context, job *cochlea.AnalysisJob) error
	Get(ctx context.Context, id string) (*cochlea.AnalysisJob, error)
	Update(ctx context.Context, id string, upd Update) error
	// ListDone returns completed jobs, newest first.
	ListDone(ctx context.Context, limit int) ([]*cochlea.AnalysisJob, error)
}

// ProvideStore selects the persistence backend: Firestore when a project is
// configured, Postgres otherwise.
func ProvideStore(cfg config.Config, db *sql.DB, logger *zap.SugaredLogger) (Store, error) {
	if cfg.FirestoreProject != "" {
		return NewFirestoreStore(context.Background(), cfg.FirestoreProject, logger)
	}
	if db == nil {
		return nil, errors.New("jobstore: no database configured")
	}
	return NewPostgresStore(db, logger)
}

var Options = ProvideStore
