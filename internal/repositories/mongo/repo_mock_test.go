package mongo

import (
	"context"
	"errors"
	"testing"

	"github.com/yoockh/jobmatch/internal/models"
	"github.com/yoockh/jobmatch/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func duplicateKey() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"})
}

func upserted() bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: 1},
		bson.E{Key: "nModified", Value: 0},
		bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: primitive.NewObjectID()}}}},
	)
}

func TestJobRepo_SetSkillsIfEmpty(t *testing.T) {
	mt := newMock(t)

	mt.Run("stores on unanalyzed job", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		ok, err := NewJobRepo(mt.DB).SetSkillsIfEmpty(context.Background(), "j1", []string{"Go", "SQL"})
		if err != nil || !ok {
			mt.Fatalf("got %v, %v", ok, err)
		}

		cmd := mt.GetStartedEvent().Command
		if got := cmd.Lookup("updates", "0", "q", "id").StringValue(); got != "j1" {
			mt.Errorf("filter id = %q", got)
		}
		or, ok := cmd.Lookup("updates", "0", "q", "$or").ArrayOK()
		if !ok {
			mt.Fatal("filter should guard on empty skills with $or")
		}
		if vals, _ := or.Values(); len(vals) != 3 {
			mt.Errorf("$or has %d branches, want 3", len(vals))
		}
		skills, _ := cmd.Lookup("updates", "0", "u", "$set", "skills_extracted").Array().Values()
		if len(skills) != 2 || skills[0].StringValue() != "Go" {
			mt.Errorf("$set skills_extracted = %v", skills)
		}
		if upsert, ok := cmd.Lookup("updates", "0", "upsert").BooleanOK(); ok && upsert {
			mt.Error("skills update must not upsert")
		}
	})

	mt.Run("already analyzed", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		ok, err := NewJobRepo(mt.DB).SetSkillsIfEmpty(context.Background(), "j1", []string{"Go"})
		if err != nil || ok {
			mt.Fatalf("got %v, %v, want false, nil", ok, err)
		}
	})

	mt.Run("nil skills stored as empty array", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		if _, err := NewJobRepo(mt.DB).SetSkillsIfEmpty(context.Background(), "j1", nil); err != nil {
			mt.Fatal(err)
		}
		v := mt.GetStartedEvent().Command.Lookup("updates", "0", "u", "$set", "skills_extracted")
		if v.Type != bson.TypeArray {
			mt.Errorf("skills_extracted type = %s, want array", v.Type)
		}
	})
}

func TestJobRepo_InsertIfAbsent(t *testing.T) {
	mt := newMock(t)
	job := func() *models.Job {
		return &models.Job{ID: "j1", Title: "Backend Developer", Company: "Acme", Description: "Go"}
	}

	mt.Run("inserts new job", func(mt *mtest.T) {
		mt.AddMockResponses(upserted())

		ok, err := NewJobRepo(mt.DB).InsertIfAbsent(context.Background(), job())
		if err != nil || !ok {
			mt.Fatalf("got %v, %v", ok, err)
		}

		cmd := mt.GetStartedEvent().Command
		q := cmd.Lookup("updates", "0", "q").Document()
		if q.Lookup("title").StringValue() != "Backend Developer" || q.Lookup("company").StringValue() != "Acme" {
			mt.Errorf("filter = %s", q)
		}
		if _, err := cmd.LookupErr("updates", "0", "u", "$set"); err == nil {
			mt.Error("seeding must never overwrite an existing job")
		}
		onInsert := cmd.Lookup("updates", "0", "u", "$setOnInsert").Document()
		if onInsert.Lookup("id").StringValue() != "j1" {
			mt.Errorf("$setOnInsert = %s", onInsert)
		}
		if onInsert.Lookup("skills_extracted").Type != bson.TypeArray {
			mt.Error("seeded jobs should carry an empty skills array")
		}
		if !cmd.Lookup("updates", "0", "upsert").Boolean() {
			mt.Error("upsert flag not set")
		}
	})

	mt.Run("existing job", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}))

		ok, err := NewJobRepo(mt.DB).InsertIfAbsent(context.Background(), job())
		if err != nil || ok {
			mt.Fatalf("got %v, %v, want false, nil", ok, err)
		}
	})

	mt.Run("lost race on unique index", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKey())

		ok, err := NewJobRepo(mt.DB).InsertIfAbsent(context.Background(), job())
		if err != nil || ok {
			mt.Fatalf("got %v, %v, want false, nil", ok, err)
		}
	})
}

func TestJobRepo_Insert(t *testing.T) {
	mt := newMock(t)

	mt.Run("ok", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		j := &models.Job{ID: "j1", Title: "Go Dev", Company: "Acme"}
		if err := NewJobRepo(mt.DB).Insert(context.Background(), j); err != nil {
			mt.Fatal(err)
		}
		if j.CreatedAt.IsZero() || j.SkillsExtracted == nil {
			mt.Errorf("defaults not applied: %+v", j)
		}
	})

	mt.Run("duplicate title and company", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKey())

		err := NewJobRepo(mt.DB).Insert(context.Background(), &models.Job{ID: "j2", Title: "Go Dev", Company: "Acme"})
		if !errors.Is(err, utils.ErrDuplicate) {
			mt.Fatalf("err = %v, want ErrDuplicate", err)
		}
	})
}

func TestJobRepo_GetByID_NotFound(t *testing.T) {
	mt := newMock(t)

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "jobmatch.jobs", mtest.FirstBatch))

		if _, err := NewJobRepo(mt.DB).GetByID(context.Background(), "ghost"); !errors.Is(err, utils.ErrNotFound) {
			mt.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestMatchRepo_Upsert(t *testing.T) {
	mt := newMock(t)

	mt.Run("keyed by resume", func(mt *mtest.T) {
		mt.AddMockResponses(upserted())

		m := &models.Match{ID: "m1", ResumeID: "r1", Results: []models.MatchEntry{{MatchScore: 80}}}
		if err := NewMatchRepo(mt.DB).Upsert(context.Background(), m); err != nil {
			mt.Fatal(err)
		}

		cmd := mt.GetStartedEvent().Command
		if got := cmd.Lookup("updates", "0", "q", "resume_id").StringValue(); got != "r1" {
			mt.Errorf("filter resume_id = %q", got)
		}
		if !cmd.Lookup("updates", "0", "upsert").Boolean() {
			mt.Error("upsert flag not set")
		}
		set := cmd.Lookup("updates", "0", "u", "$set").Document()
		if _, err := set.LookupErr("results"); err != nil {
			mt.Error("$set should replace results")
		}
		if _, err := set.LookupErr("created_at"); err == nil {
			mt.Error("created_at belongs in $setOnInsert")
		}
		onInsert := cmd.Lookup("updates", "0", "u", "$setOnInsert").Document()
		if onInsert.Lookup("id").StringValue() != "m1" {
			mt.Errorf("$setOnInsert = %s", onInsert)
		}
		if m.CreatedAt.IsZero() || m.UpdatedAt.IsZero() {
			mt.Error("timestamps not defaulted")
		}
	})

	mt.Run("missing record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "jobmatch.matches", mtest.FirstBatch))

		if _, err := NewMatchRepo(mt.DB).GetByResumeID(context.Background(), "r9"); !errors.Is(err, utils.ErrNotFound) {
			mt.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}
