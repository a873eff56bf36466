package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/jobmatch/internal/models"
	"github.com/yoockh/jobmatch/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ResumeRepository interface {
	Insert(ctx context.Context, r *models.Resume) error
	GetByID(ctx context.Context, id string) (*models.Resume, error)
}

type resumeRepo struct {
	col *mongo.Collection
}

func NewResumeRepo(db *mongo.Database) ResumeRepository {
	return &resumeRepo{col: db.Collection("resumes")}
}

func (r *resumeRepo) Insert(ctx context.Context, res *models.Resume) error {
	if res.UploadedAt.IsZero() {
		res.UploadedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, res)
	return err
}

func (r *resumeRepo) GetByID(ctx context.Context, id string) (*models.Resume, error) {
	var res models.Resume
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}
