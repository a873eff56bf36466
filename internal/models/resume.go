package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Resume struct {
	ObjectID primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID       string             `bson:"id" json:"id"`

	Filename        string   `bson:"filename" json:"filename"`
	ExtractedText   string   `bson:"extracted_text" json:"extracted_text"`
	TextPreview     string   `bson:"text_preview" json:"text_preview"`
	SkillsExtracted []string `bson:"skills_extracted" json:"skills_extracted"`

	// object key of the archived PDF, empty when archival is disabled
	FilePath string `bson:"file_path,omitempty" json:"file_path,omitempty"`

	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
}
