package jobstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/mager/cochlea/cochlea"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const jobsCollection = "analysis_jobs"

// FirestoreStore keeps jobs as documents in a single collection.
type FirestoreStore struct {
	client *firestore.Client
	log    *zap.SugaredLogger
}

// NewFirestoreStore connects to the given project.
func NewFirestoreStore(ctx context.Context, projectID string, log *zap.SugaredLogger) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &FirestoreStore{client: client, log: log}, nil
}

func (s *FirestoreStore) Create(ctx context.Context, job *cochlea.AnalysisJob) error {
	_, err := s.client.Collection(jobsCollection).Doc(job.ID).Create(ctx, job)
	if err != nil {
		return fmt.Errorf("create job %s: %w", job.ID, err)
	}
	return nil
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (*cochlea.AnalysisJob, error) {
	snap, err := s.client.Collection(jobsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}

	var job cochlea.AnalysisJob
	if err := snap.DataTo(&job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (s *FirestoreStore) Update(ctx context.Context, id string, upd Update) error {
	updates := []firestore.Update{
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if upd.Status != nil {
		updates = append(updates, firestore.Update{Path: "status", Value: string(*upd.Status)})
	}
	if upd.StorageKey != nil {
		updates = append(updates, firestore.Update{Path: "storageKey", Value: *upd.StorageKey})
	}
	if upd.StorageURL != nil {
		updates = append(updates, firestore.Update{Path: "storageURL", Value: *upd.StorageURL})
	}
	if upd.Features != nil {
		updates = append(updates, firestore.Update{Path: "features", Value: upd.Features})
	}
	if upd.Prompts != nil {
		updates = append(updates, firestore.Update{Path: "prompts", Value: upd.Prompts})
	}
	if upd.ErrorMessage != nil {
		updates = append(updates, firestore.Update{Path: "errorMessage", Value: *upd.ErrorMessage})
	}

	_, err := s.client.Collection(jobsCollection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	return nil
}

func (s *FirestoreStore) ListDone(ctx context.Context, limit int) ([]*cochlea.AnalysisJob, error) {
	iter := s.client.Collection(jobsCollection).
		Where("status", "==", string(cochlea.StatusDone)).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var jobs []*cochlea.AnalysisJob
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list done jobs: %w", err)
		}
		var job cochlea.AnalysisJob
		if err := snap.DataTo(&job); err != nil {
			return nil, fmt.Errorf("decode job %s: %w", snap.Ref.ID, err)
		}
		jobs = append(jobs, &job)
	}
	return jobs, nil
}
