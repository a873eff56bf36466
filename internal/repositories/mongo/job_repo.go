package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/yoockh/jobmatch/internal/models"
	"github.com/yoockh/jobmatch/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type JobRepository interface {
	List(ctx context.Context, f models.JobFilter) ([]models.Job, error)
	ListPending(ctx context.Context) ([]models.Job, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Job, error)
	Insert(ctx context.Context, j *models.Job) error
	InsertIfAbsent(ctx context.Context, j *models.Job) (bool, error)
	SetSkillsIfEmpty(ctx context.Context, id string, skills []string) (bool, error)
}

type jobRepo struct {
	col *mongo.Collection
}

func NewJobRepo(db *mongo.Database) JobRepository {
	return &jobRepo{col: db.Collection("jobs")}
}

// insertion order
var jobSort = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

func (r *jobRepo) List(ctx context.Context, f models.JobFilter) ([]models.Job, error) {
	return r.find(ctx, buildJobFilter(f))
}

func (r *jobRepo) ListPending(ctx context.Context) ([]models.Job, error) {
	return r.find(ctx, unanalyzedFilter())
}

func (r *jobRepo) find(ctx context.Context, filter bson.M) ([]models.Job, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(jobSort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Job{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *jobRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jobRepo) Insert(ctx context.Context, j *models.Job) error {
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	if j.SkillsExtracted == nil {
		j.SkillsExtracted = []string{}
	}
	_, err := r.col.InsertOne(ctx, j)
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrDuplicate
	}
	return err
}

// InsertIfAbsent inserts j unless a job with the same title and company exists.
// Two concurrent upserts can both miss the filter; the unique index rejects
// the loser, which is reported as not inserted.
func (r *jobRepo) InsertIfAbsent(ctx context.Context, j *models.Job) (bool, error) {
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	if j.SkillsExtracted == nil {
		j.SkillsExtracted = []string{}
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"title": j.Title, "company": j.Company},
		bson.M{"$setOnInsert": j},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// SetSkillsIfEmpty stores skills only while the job is still unanalyzed.
// It reports false when the job already had skills (or does not exist).
func (r *jobRepo) SetSkillsIfEmpty(ctx context.Context, id string, skills []string) (bool, error) {
	if skills == nil {
		skills = []string{}
	}
	filter := unanalyzedFilter()
	filter["id"] = id

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"skills_extracted": skills}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func unanalyzedFilter() bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"skills_extracted": bson.M{"$exists": false}},
		bson.M{"skills_extracted": nil},
		bson.M{"skills_extracted": bson.M{"$size": 0}},
	}}
}

// buildJobFilter turns optional filters into case-insensitive substring matches.
func buildJobFilter(f models.JobFilter) bson.M {
	q := bson.M{}
	if s := strings.TrimSpace(f.Search); s != "" {
		q["title"] = containsCI(s)
	}
	if s := strings.TrimSpace(f.Location); s != "" {
		q["location"] = containsCI(s)
	}
	if s := strings.TrimSpace(f.Company); s != "" {
		q["company"] = containsCI(s)
	}
	return q
}

func containsCI(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
