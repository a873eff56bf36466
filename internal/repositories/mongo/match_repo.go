package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/jobmatch/internal/models"
	"github.com/yoockh/jobmatch/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MatchRepository interface {
	// Upsert replaces the results stored for m.ResumeID, creating the record if needed.
	Upsert(ctx context.Context, m *models.Match) error
	GetByResumeID(ctx context.Context, resumeID string) (*models.Match, error)
}

type matchRepo struct {
	col *mongo.Collection
}

func NewMatchRepo(db *mongo.Database) MatchRepository {
	return &matchRepo{col: db.Collection("matches")}
}

func (r *matchRepo) Upsert(ctx context.Context, m *models.Match) error {
	now := time.Now().UTC()
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"resume_id": m.ResumeID},
		bson.M{
			"$set": bson.M{
				"results":    m.Results,
				"updated_at": m.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"id":         m.ID,
				"created_at": m.CreatedAt,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *matchRepo) GetByResumeID(ctx context.Context, resumeID string) (*models.Match, error) {
	var m models.Match
	err := r.col.FindOne(ctx, bson.M{"resume_id": resumeID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
