package jobstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mager/cochlea/cochlea"
)

// MemoryStore is an in-process Store used by tests and local development.
type MemoryStore struct {
	mu   sync.Mutex
	jobs map[string]*cochlea.AnalysisJob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*cochlea.AnalysisJob)}
}

func (s *MemoryStore) Create(ctx context.Context, job *cochlea.AnalysisJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*cochlea.AnalysisJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, upd Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if upd.Status != nil {
		job.Status = *upd.Status
	}
	if upd.StorageKey != nil {
		job.StorageKey = *upd.StorageKey
	}
	if upd.StorageURL != nil {
		job.StorageURL = *upd.StorageURL
	}
	if upd.Features != nil {
		job.Features = upd.Features
	}
	if upd.Prompts != nil {
		job.Prompts = upd.Prompts
	}
	if upd.ErrorMessage != nil {
		job.ErrorMessage = *upd.ErrorMessage
	}
	job.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) ListDone(ctx context.Context, limit int) ([]*cochlea.AnalysisJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var jobs []*cochlea.AnalysisJob
	for _, job := range s.jobs {
		if job.Status == cochlea.StatusDone {
			copied := *job
			jobs = append(jobs, &copied)
		}
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}
