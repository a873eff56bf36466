package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobmatch/internal/analysis"
	"github.com/yoockh/jobmatch/internal/models"
	mongorepo "github.com/yoockh/jobmatch/internal/repositories/mongo"
	"github.com/yoockh/jobmatch/internal/seed"
	"github.com/yoockh/jobmatch/internal/utils"
)

type JobService interface {
	List(ctx context.Context, f models.JobFilter) ([]models.Job, error)
	Analyze(ctx context.Context, jobID string) (*AnalyzeResult, error)
	// EnsureSkills fills job.SkillsExtracted in place unless it is already populated.
	EnsureSkills(ctx context.Context, job *models.Job) (degraded bool, err error)
	AnalyzePending(ctx context.Context) (analyzed int, err error)
	Create(ctx context.Context, in CreateJobInput) (*models.Job, error)
	Seed(ctx context.Context) (created int, err error)
}

type AnalyzeResult struct {
	JobID    string   `json:"job_id"`
	Skills   []string `json:"skills_extracted"`
	Degraded bool     `json:"degraded"`
}

type CreateJobInput struct {
	Title        string `json:"title" binding:"required"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	Description  string `json:"description" binding:"required"`
	Requirements string `json:"requirements"`
}

type jobService struct {
	jobs        mongorepo.JobRepository
	skills      analysis.SkillExtractor
	templates   []seed.Template
	seedOnEmpty bool
	log         logrus.FieldLogger
}

func NewJobService(jobs mongorepo.JobRepository, skills analysis.SkillExtractor, templates []seed.Template, seedOnEmpty bool, log logrus.FieldLogger) JobService {
	return &jobService{jobs: jobs, skills: skills, templates: templates, seedOnEmpty: seedOnEmpty, log: log}
}

func (s *jobService) List(ctx context.Context, f models.JobFilter) ([]models.Job, error) {
	const op = "JobService.List"

	if s.seedOnEmpty {
		n, err := s.jobs.Count(ctx)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to count jobs", err)
		}
		if n == 0 {
			if _, err := s.Seed(ctx); err != nil {
				s.log.WithError(err).Warn("seeding empty job catalogue failed")
			}
		}
	}

	out, err := s.jobs.List(ctx, f)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return out, nil
}

func (s *jobService) Analyze(ctx context.Context, jobID string) (*AnalyzeResult, error) {
	const op = "JobService.Analyze"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}

	degraded, err := s.EnsureSkills(ctx, job)
	if err != nil {
		return nil, err
	}
	return &AnalyzeResult{JobID: job.ID, Skills: job.SkillsExtracted, Degraded: degraded}, nil
}

func (s *jobService) EnsureSkills(ctx context.Context, job *models.Job) (bool, error) {
	const op = "JobService.EnsureSkills"

	if job.Analyzed() {
		return false, nil
	}

	degraded := false
	skills, err := s.skills.ExtractSkills(ctx, job.AnalysisText(), analysis.KindJob)
	if err != nil {
		s.log.WithError(err).WithField("job_id", job.ID).Warn("skill extraction degraded")
		skills, degraded = []string{}, true
	}

	updated, err := s.jobs.SetSkillsIfEmpty(ctx, job.ID, skills)
	if err != nil {
		return false, utils.E(utils.CodeInternal, op, "failed to store job skills", err)
	}
	if !updated {
		// a concurrent analysis won; report what it stored
		cur, err := s.jobs.GetByID(ctx, job.ID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return false, utils.E(utils.CodeNotFound, op, "Job not found", err)
			}
			return false, utils.E(utils.CodeInternal, op, "failed to reload job", err)
		}
		if cur.Analyzed() {
			job.SkillsExtracted = cur.SkillsExtracted
			return false, nil
		}
	}

	job.SkillsExtracted = skills
	return degraded, nil
}

func (s *jobService) AnalyzePending(ctx context.Context) (int, error) {
	const op = "JobService.AnalyzePending"

	pending, err := s.jobs.ListPending(ctx)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to list pending jobs", err)
	}

	analyzed := 0
	for i := range pending {
		if err := ctx.Err(); err != nil {
			return analyzed, err
		}
		degraded, err := s.EnsureSkills(ctx, &pending[i])
		if err != nil {
			return analyzed, err
		}
		if !degraded {
			analyzed++
		}
	}
	return analyzed, nil
}

func (s *jobService) Create(ctx context.Context, in CreateJobInput) (*models.Job, error) {
	const op = "JobService.Create"

	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title and description are required", nil)
	}
	if in.Company == "" {
		in.Company = "Sample Company"
	}
	if in.Location == "" {
		in.Location = "Remote"
	}

	job := &models.Job{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(in.Title),
		Company:         in.Company,
		Location:        in.Location,
		Description:     in.Description,
		Requirements:    in.Requirements,
		SkillsExtracted: []string{},
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.jobs.Insert(ctx, job); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeInvalidArgument, op, "a job with this title and company already exists", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to insert job", err)
	}
	return job, nil
}

func (s *jobService) Seed(ctx context.Context) (int, error) {
	const op = "JobService.Seed"

	created := 0
	for _, t := range s.templates {
		job := t.Job()
		job.CreatedAt = time.Now().UTC()
		ok, err := s.jobs.InsertIfAbsent(ctx, job)
		if err != nil {
			return created, utils.E(utils.CodeInternal, op, "failed to insert seed job", err)
		}
		if ok {
			created++
		}
	}
	s.log.WithField("created", created).Info("job catalogue seeded")
	return created, nil
}
