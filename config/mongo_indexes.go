package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	jobs := db.Collection("jobs")
	_, err := jobs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("uniq_job_id").SetUnique(true),
		},
		// listing order
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("by_created"),
		},
		// one job per title and company
		{
			Keys:    bson.D{{Key: "title", Value: 1}, {Key: "company", Value: 1}},
			Options: options.Index().SetName("uniq_title_company").SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	resumes := db.Collection("resumes")
	_, err = resumes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetName("uniq_resume_id").SetUnique(true),
	})
	if err != nil {
		return err
	}

	// one match record per resume
	matches := db.Collection("matches")
	_, err = matches.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "resume_id", Value: 1}},
		Options: options.Index().SetName("uniq_resume").SetUnique(true),
	})
	return err
}
