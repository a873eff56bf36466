package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobmatch/internal/analysis"
	"github.com/yoockh/jobmatch/internal/models"
	"github.com/yoockh/jobmatch/internal/providers/pdftext"
	mongorepo "github.com/yoockh/jobmatch/internal/repositories/mongo"
	"github.com/yoockh/jobmatch/internal/storage"
	"github.com/yoockh/jobmatch/internal/utils"
)

const previewRunes = 500

type ResumeService interface {
	Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error)
	Get(ctx context.Context, resumeID string) (*models.Resume, error)
}

type UploadResult struct {
	Resume   *models.Resume
	Degraded bool
}

type resumeService struct {
	resumes  mongorepo.ResumeRepository
	pdf      pdftext.Extractor
	skills   analysis.SkillExtractor
	uploader storage.Uploader // optional
	log      logrus.FieldLogger
}

func NewResumeService(resumes mongorepo.ResumeRepository, pdf pdftext.Extractor, skills analysis.SkillExtractor, uploader storage.Uploader, log logrus.FieldLogger) ResumeService {
	return &resumeService{resumes: resumes, pdf: pdf, skills: skills, uploader: uploader, log: log}
}

func (s *resumeService) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	const op = "ResumeService.Upload"

	if len(data) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "uploaded file is empty", nil)
	}

	text, err := s.pdf.Extract(data)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Only PDF files are supported", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Could not extract text from PDF", nil)
	}

	degraded := false
	skills, err := s.skills.ExtractSkills(ctx, text, analysis.KindResume)
	if err != nil {
		s.log.WithError(err).WithField("filename", filename).Warn("resume skill extraction degraded")
		skills, degraded = []string{}, true
	}

	resume := &models.Resume{
		ID:              uuid.NewString(),
		Filename:        filename,
		ExtractedText:   text,
		TextPreview:     Preview(text),
		SkillsExtracted: skills,
		UploadedAt:      time.Now().UTC(),
	}

	if s.uploader != nil {
		path, err := s.uploader.Upload(ctx, storage.ResumeObjectName(resume.ID), "application/pdf", bytes.NewReader(data))
		if err != nil {
			s.log.WithError(err).WithField("resume_id", resume.ID).Warn("resume archival failed")
		} else {
			resume.FilePath = path
		}
	}

	if err := s.resumes.Insert(ctx, resume); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist resume", err)
	}
	return &UploadResult{Resume: resume, Degraded: degraded}, nil
}

func (s *resumeService) Get(ctx context.Context, resumeID string) (*models.Resume, error) {
	const op = "ResumeService.Get"

	if resumeID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume_id is required", nil)
	}
	r, err := s.resumes.GetByID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Resume not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get resume", err)
	}
	return r, nil
}

// Preview returns the first 500 runes of text, with "..." appended when truncated.
func Preview(text string) string {
	r := []rune(text)
	if len(r) <= previewRunes {
		return text
	}
	return string(r[:previewRunes]) + "..."
}
