package jobstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mager/cochlea/cochlea"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_jobs (
	id            TEXT PRIMARY KEY,
	filename      TEXT NOT NULL,
	status        TEXT NOT NULL,
	storage_key   TEXT NOT NULL DEFAULT '',
	storage_url   TEXT NOT NULL DEFAULT '',
	features      JSONB,
	prompts       JSONB,
	error_message TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS analysis_jobs_status_created
	ON analysis_jobs (status, created_at DESC);
`

// PostgresStore keeps jobs in a single table with JSONB feature/prompt
// columns.
type PostgresStore struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// NewPostgresStore ensures the schema and returns the store.
func NewPostgresStore(db *sql.DB, log *zap.SugaredLogger) (*PostgresStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{db: db, log: log}, nil
}

func (s *PostgresStore) Create(ctx context.Context, job *cochlea.AnalysisJob) error {
	features, prompts, err := marshalDocs(job.Features, job.Prompts)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analysis_jobs
			(id, filename, status, storage_key, storage_url, features, prompts, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		job.ID, job.Filename, string(job.Status), job.StorageKey, job.StorageURL,
		features, prompts, job.ErrorMessage, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job %s: %w", job.ID, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*cochlea.AnalysisJob, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, status, storage_key, storage_url, features, prompts, error_message, created_at, updated_at
		FROM analysis_jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (s *PostgresStore) Update(ctx context.Context, id string, upd Update) error {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Status != nil {
		add("status", string(*upd.Status))
	}
	if upd.StorageKey != nil {
		add("storage_key", *upd.StorageKey)
	}
	if upd.StorageURL != nil {
		add("storage_url", *upd.StorageURL)
	}
	if upd.Features != nil {
		b, err := json.Marshal(upd.Features)
		if err != nil {
			return fmt.Errorf("marshal features: %w", err)
		}
		add("features", b)
	}
	if upd.Prompts != nil {
		b, err := json.Marshal(upd.Prompts)
		if err != nil {
			return fmt.Errorf("marshal prompts: %w", err)
		}
		add("prompts", b)
	}
	if upd.ErrorMessage != nil {
		add("error_message", *upd.ErrorMessage)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE analysis_jobs SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListDone(ctx context.Context, limit int) ([]*cochlea.AnalysisJob, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, status, storage_key, storage_url, features, prompts, error_message, created_at, updated_at
		FROM analysis_jobs WHERE status = $1
		ORDER BY created_at DESC LIMIT $2`, string(cochlea.StatusDone), limit)
	if err != nil {
		return nil, fmt.Errorf("list done jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*cochlea.AnalysisJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*cochlea.AnalysisJob, error) {
	var (
		job      cochlea.AnalysisJob
		status   string
		features []byte
		prompts  []byte
	)
	err := row.Scan(&job.ID, &job.Filename, &status, &job.StorageKey, &job.StorageURL,
		&features, &prompts, &job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	job.Status = cochlea.JobStatus(status)

	if len(features) > 0 {
		job.Features = &cochlea.FeatureSet{}
		if err := json.Unmarshal(features, job.Features); err != nil {
			return nil, fmt.Errorf("unmarshal features: %w", err)
		}
	}
	if len(prompts) > 0 {
		job.Prompts = &cochlea.PromptSet{}
		if err := json.Unmarshal(prompts, job.Prompts); err != nil {
			return nil, fmt.Errorf("unmarshal prompts: %w", err)
		}
	}
	return &job, nil
}

func marshalDocs(fs *cochlea.FeatureSet, ps *cochlea.PromptSet) (features, prompts []byte, err error) {
	if fs != nil {
		if features, err = json.Marshal(fs); err != nil {
			return nil, nil, fmt.Errorf("marshal features: %w", err)
		}
	}
	if ps != nil {
		if prompts, err = json.Marshal(ps); err != nil {
			return nil, nil, fmt.Errorf("marshal prompts: %w", err)
		}
	}
	return features, prompts, nil
}
