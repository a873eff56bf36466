package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Match holds the ranked results of the latest computation for one resume.
type Match struct {
	ObjectID primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID       string             `bson:"id" json:"id"`
	ResumeID string             `bson:"resume_id" json:"resume_id"`

	Results []MatchEntry `bson:"results" json:"results"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type MatchEntry struct {
	Job            Job      `bson:"job" json:"job"` // snapshot at computation time
	MatchScore     int      `bson:"match_score" json:"match_score"`
	MatchingSkills []string `bson:"matching_skills" json:"matching_skills"`
	MissingSkills  []string `bson:"missing_skills" json:"missing_skills"`
	Explanation    string   `bson:"explanation" json:"explanation"`

	// set when the scoring call failed and zero values were substituted
	Degraded bool `bson:"degraded,omitempty" json:"degraded,omitempty"`
}
