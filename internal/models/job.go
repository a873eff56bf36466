package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Job struct {
	ObjectID primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID       string             `bson:"id" json:"id"` // uuid v4

	Title        string `bson:"title" json:"title"`
	Company      string `bson:"company" json:"company"`
	Location     string `bson:"location" json:"location"`
	Description  string `bson:"description" json:"description"`
	Requirements string `bson:"requirements" json:"requirements"`

	// empty until the first successful analysis
	SkillsExtracted []string `bson:"skills_extracted" json:"skills_extracted"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Analyzed reports whether skills have already been extracted.
func (j *Job) Analyzed() bool { return len(j.SkillsExtracted) > 0 }

// AnalysisText is the text handed to skill extraction.
func (j *Job) AnalysisText() string {
	return j.Title + " " + j.Description + " " + j.Requirements
}

type JobFilter struct {
	Search   string // title substring
	Location string
	Company  string
}
