package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobmatch/internal/analysis"
	"github.com/yoockh/jobmatch/internal/models"
	mongorepo "github.com/yoockh/jobmatch/internal/repositories/mongo"
	"github.com/yoockh/jobmatch/internal/utils"
	"golang.org/x/sync/errgroup"
)

const maxMatches = 10

type MatchService interface {
	// Compute scores the resume against every job and stores the top results.
	// onProgress may be nil; it is called serially after each job is scored.
	Compute(ctx context.Context, resumeID string, onProgress ProgressFunc) (*MatchOutcome, error)
	Get(ctx context.Context, resumeID string) ([]models.MatchEntry, error)
}

type Progress struct {
	Done  int    `json:"done"`
	Total int    `json:"total"`
	JobID string `json:"job_id"`
}

type ProgressFunc func(Progress)

type MatchOutcome struct {
	ResumeID     string              `json:"resume_id"`
	TotalMatches int                 `json:"total_matches"`
	Matches      []models.MatchEntry `json:"matches"`
}

type matchService struct {
	resumes     mongorepo.ResumeRepository
	jobRepo     mongorepo.JobRepository
	matches     mongorepo.MatchRepository
	jobs        JobService
	scorer      analysis.MatchScorer
	concurrency int
	log         logrus.FieldLogger
}

func NewMatchService(resumes mongorepo.ResumeRepository, jobRepo mongorepo.JobRepository, matches mongorepo.MatchRepository, jobs JobService, scorer analysis.MatchScorer, concurrency int, log logrus.FieldLogger) MatchService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &matchService{
		resumes:     resumes,
		jobRepo:     jobRepo,
		matches:     matches,
		jobs:        jobs,
		scorer:      scorer,
		concurrency: concurrency,
		log:         log,
	}
}

func (s *matchService) Compute(ctx context.Context, resumeID string, onProgress ProgressFunc) (*MatchOutcome, error) {
	const op = "MatchService.Compute"

	if resumeID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume_id is required", nil)
	}
	resume, err := s.resumes.GetByID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Resume not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get resume", err)
	}

	jobs, err := s.jobRepo.List(ctx, models.JobFilter{})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}

	entries := make([]models.MatchEntry, len(jobs))
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range jobs {
		g.Go(func() error {
			job := &jobs[i]
			if _, err := s.jobs.EnsureSkills(gctx, job); err != nil {
				return err
			}
			entries[i] = s.score(gctx, resume, job)

			if onProgress != nil {
				mu.Lock()
				done++
				onProgress(Progress{Done: done, Total: len(jobs), JobID: job.ID})
				mu.Unlock()
			}
			return nil
		})
	}
	err = g.Wait()
	// never persist results scored against a cancelled context
	if cerr := ctx.Err(); cerr != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "request cancelled", cerr)
	}
	if err != nil {
		var ae *utils.AppError
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to compute matches", err)
	}

	top := rank(entries)
	rec := &models.Match{
		ID:        uuid.NewString(),
		ResumeID:  resume.ID,
		Results:   top,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.matches.Upsert(ctx, rec); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store matches", err)
	}

	return &MatchOutcome{ResumeID: resume.ID, TotalMatches: len(entries), Matches: top}, nil
}

func (s *matchService) score(ctx context.Context, resume *models.Resume, job *models.Job) models.MatchEntry {
	res, err := s.scorer.ScoreMatch(ctx, analysis.MatchInput{
		JobTitle:     job.Title,
		JobText:      job.Description + "\n" + job.Requirements,
		JobSkills:    job.SkillsExtracted,
		ResumeText:   resume.ExtractedText,
		ResumeSkills: resume.SkillsExtracted,
	})
	degraded := false
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"resume_id": resume.ID,
			"job_id":    job.ID,
		}).Warn("match scoring degraded")
		res, degraded = analysis.Degraded(), true
	}
	res = analysis.Normalize(res)

	return models.MatchEntry{
		Job:            *job,
		MatchScore:     res.Score,
		MatchingSkills: res.MatchingSkills,
		MissingSkills:  res.MissingSkills,
		Explanation:    res.Explanation,
		Degraded:       degraded,
	}
}

// rank sorts by score descending, keeping job order for ties, and keeps the top results.
func rank(entries []models.MatchEntry) []models.MatchEntry {
	out := make([]models.MatchEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchScore > out[j].MatchScore })
	if len(out) > maxMatches {
		out = out[:maxMatches]
	}
	return out
}

func (s *matchService) Get(ctx context.Context, resumeID string) ([]models.MatchEntry, error) {
	const op = "MatchService.Get"

	if resumeID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume_id is required", nil)
	}
	m, err := s.matches.GetByResumeID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return []models.MatchEntry{}, nil
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get matches", err)
	}
	if m.Results == nil {
		return []models.MatchEntry{}, nil
	}
	return m.Results, nil
}
