package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobmatch/internal/analysis"
	"github.com/yoockh/jobmatch/internal/models"
	"github.com/yoockh/jobmatch/internal/providers/pdftext"
	"github.com/yoockh/jobmatch/internal/utils"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memJobRepo struct {
	mu   sync.Mutex
	jobs []models.Job
}

func (r *memJobRepo) List(_ context.Context, f models.JobFilter) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Job{}
	for _, j := range r.jobs {
		if f.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(f.Location)) {
			continue
		}
		if f.Company != "" && !strings.Contains(strings.ToLower(j.Company), strings.ToLower(f.Company)) {
			continue
		}
		if f.Search != "" {
			if !strings.Contains(strings.ToLower(j.Title), strings.ToLower(f.Search)) {
				continue
			}
		}
		out = append(out, j)
	}
	return out, nil
}

func (r *memJobRepo) ListPending(_ context.Context) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, j := range r.jobs {
		if !j.Analyzed() {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *memJobRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.jobs)), nil
}

func (r *memJobRepo) GetByID(_ context.Context, id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.ID == id {
			cp := j
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *memJobRepo) Insert(_ context.Context, j *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cur := range r.jobs {
		if cur.Title == j.Title && cur.Company == j.Company {
			return utils.ErrDuplicate
		}
	}
	r.jobs = append(r.jobs, *j)
	return nil
}

func (r *memJobRepo) InsertIfAbsent(_ context.Context, j *models.Job) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cur := range r.jobs {
		if cur.Title == j.Title && cur.Company == j.Company {
			return false, nil
		}
	}
	r.jobs = append(r.jobs, *j)
	return true, nil
}

func (r *memJobRepo) SetSkillsIfEmpty(_ context.Context, id string, skills []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.jobs {
		if r.jobs[i].ID == id {
			if r.jobs[i].Analyzed() {
				return false, nil
			}
			r.jobs[i].SkillsExtracted = skills
			return true, nil
		}
	}
	return false, nil
}

type memResumeRepo struct {
	mu      sync.Mutex
	resumes map[string]models.Resume
}

func newMemResumeRepo() *memResumeRepo {
	return &memResumeRepo{resumes: map[string]models.Resume{}}
}

func (r *memResumeRepo) Insert(_ context.Context, res *models.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resumes[res.ID] = *res
	return nil
}

func (r *memResumeRepo) GetByID(_ context.Context, id string) (*models.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &res, nil
}

type memMatchRepo struct {
	mu      sync.Mutex
	byID    map[string]models.Match
	upserts int
}

func newMemMatchRepo() *memMatchRepo {
	return &memMatchRepo{byID: map[string]models.Match{}}
}

func (r *memMatchRepo) Upsert(_ context.Context, m *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	r.byID[m.ResumeID] = *m
	return nil
}

func (r *memMatchRepo) GetByResumeID(_ context.Context, id string) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &m, nil
}

// keywordExtractor reports every known skill that appears in the text.
type keywordExtractor struct {
	known []string
	err   error
	calls atomic.Int32
}

func (k *keywordExtractor) ExtractSkills(_ context.Context, text string, _ analysis.Kind) ([]string, error) {
	k.calls.Add(1)
	if k.err != nil {
		return nil, k.err
	}
	out := []string{}
	lower := strings.ToLower(text)
	for _, s := range k.known {
		if strings.Contains(lower, strings.ToLower(s)) {
			out = append(out, s)
		}
	}
	return out, nil
}

// overlapScorer scores by the share of job skills found in the resume skills.
type overlapScorer struct {
	fixed map[string]int // job title -> raw score, bypasses overlap
	fail  map[string]bool
	delay time.Duration
}

func (o *overlapScorer) ScoreMatch(ctx context.Context, in analysis.MatchInput) (analysis.MatchResult, error) {
	if o.delay > 0 {
		select {
		case <-time.After(o.delay):
		case <-ctx.Done():
			return analysis.MatchResult{}, ctx.Err()
		}
	}
	if o.fail[in.JobTitle] {
		return analysis.MatchResult{}, errors.New("llm unavailable")
	}
	have := map[string]bool{}
	for _, s := range in.ResumeSkills {
		have[strings.ToLower(s)] = true
	}
	res := analysis.MatchResult{MatchingSkills: []string{}, MissingSkills: []string{}, Explanation: "overlap"}
	for _, s := range in.JobSkills {
		if have[strings.ToLower(s)] {
			res.MatchingSkills = append(res.MatchingSkills, s)
		} else {
			res.MissingSkills = append(res.MissingSkills, s)
		}
	}
	if n := len(in.JobSkills); n > 0 {
		res.Score = 100 * len(res.MatchingSkills) / n
	}
	if v, ok := o.fixed[in.JobTitle]; ok {
		res.Score = v
	}
	sort.Strings(res.MatchingSkills)
	return res, nil
}

type stubPDF struct {
	text string
}

func (s stubPDF) Extract(data []byte) (string, error) {
	if !strings.HasPrefix(string(data), "%PDF-") {
		return "", pdftext.ErrNotPDF
	}
	return s.text, nil
}

type memUploader struct {
	objects map[string]int
	err     error
}

func (u *memUploader) Upload(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	b, _ := io.ReadAll(r)
	if u.objects == nil {
		u.objects = map[string]int{}
	}
	u.objects[name] = len(b)
	return "mem://" + name, nil
}

func (u *memUploader) Close() error { return nil }

func job(id, title, location, desc string) models.Job {
	return models.Job{
		ID:          id,
		Title:       title,
		Company:     "Acme",
		Location:    location,
		Description: desc,
		CreatedAt:   time.Unix(0, 0).UTC(),
	}
}
