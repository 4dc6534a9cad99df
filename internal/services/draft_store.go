package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edital360/portal/internal/models"
)

// DraftStore persists notice-creation drafts, one per admin, so the wizard
// survives navigation and restarts.
type DraftStore interface {
	Save(ctx context.Context, draft *models.NoticeDraft) error
	Load(ctx context.Context, createdBy string) (*models.NoticeDraft, error)
	Delete(ctx context.Context, createdBy string) error
}

// mongoDraftStore stores drafts in MongoDB
type mongoDraftStore struct {
	collection *mongo.Collection
}

// NewMongoDraftStore creates a Mongo-backed draft store
func NewMongoDraftStore(collection *mongo.Collection) DraftStore {
	return &mongoDraftStore{collection: collection}
}

func (s *mongoDraftStore) Save(ctx context.Context, draft *models.NoticeDraft) error {
	draft.UpdatedAt = time.Now().UTC()

	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"created_by": draft.CreatedBy},
		draft,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save notice draft: %w", err)
	}
	return nil
}

func (s *mongoDraftStore) Load(ctx context.Context, createdBy string) (*models.NoticeDraft, error) {
	var draft models.NoticeDraft
	err := s.collection.FindOne(ctx, bson.M{"created_by": createdBy}).Decode(&draft)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load notice draft: %w", err)
	}
	return &draft, nil
}

func (s *mongoDraftStore) Delete(ctx context.Context, createdBy string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"created_by": createdBy})
	if err != nil {
		return fmt.Errorf("failed to delete notice draft: %w", err)
	}
	return nil
}
