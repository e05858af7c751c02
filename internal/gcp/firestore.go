package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/Lllllllleong/lecturesummary/internal/models"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// JobRecorder writes lecture job records to a Firestore collection.
type JobRecorder struct {
	client     *firestore.Client
	collection string
}

// NewJobRecorder returns a recorder for the given collection.
func NewJobRecorder(client *firestore.Client, collection string) *JobRecorder {
	return &JobRecorder{client: client, collection: collection}
}

// Create adds a job document and returns its ID.
func (r *JobRecorder) Create(ctx context.Context, job models.Job) (string, error) {
	docRef, _, err := r.client.Collection(r.collection).Add(ctx, job)
	if err != nil {
		return "", fmt.Errorf("failed to create job document: %w", err)
	}
	return docRef.ID, nil
}

// UpdateStatus sets the job status, plus error details and page count when given.
func (r *JobRecorder) UpdateStatus(ctx context.Context, jobID, status, errDetails string, pageCount int) error {
	updates := []firestore.Update{
		{Path: "status", Value: status},
	}
	if errDetails != "" {
		updates = append(updates, firestore.Update{Path: "errorDetails", Value: errDetails})
	}
	if pageCount > 0 {
		updates = append(updates, firestore.Update{Path: "pageCount", Value: pageCount})
	}
	if _, err := r.client.Collection(r.collection).Doc(jobID).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update job %s: %w", jobID, err)
	}
	return nil
}
