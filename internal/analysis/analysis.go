package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yoockh/jobmatch/internal/providers/llm"
)

// Kind names the text handed to skill extraction.
type Kind string

const (
	KindJob    Kind = "job description"
	KindResume Kind = "resume"
)

const (
	maxInputChars = 2000
	maxSkills     = 20
	maxMatchChars = 4000
)

var ErrMalformedReply = errors.New("malformed llm reply")

type SkillExtractor interface {
	ExtractSkills(ctx context.Context, text string, kind Kind) ([]string, error)
}

type MatchInput struct {
	JobTitle     string
	JobText      string
	JobSkills    []string
	ResumeText   string
	ResumeSkills []string
}

type MatchResult struct {
	Score          int      `json:"match_score"`
	MatchingSkills []string `json:"matching_skills"`
	MissingSkills  []string `json:"missing_skills"`
	Explanation    string   `json:"explanation"`
}

type MatchScorer interface {
	ScoreMatch(ctx context.Context, in MatchInput) (MatchResult, error)
}

// Client implements SkillExtractor and MatchScorer on top of an llm.Provider.
// Every call gets its own timeout; callers decide how to degrade on error.
type Client struct {
	provider llm.Provider
	timeout  time.Duration
}

func NewClient(provider llm.Provider, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{provider: provider, timeout: timeout}
}

func (c *Client) ExtractSkills(ctx context.Context, text string, kind Kind) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.provider.Complete(ctx, skillsSystem, fmt.Sprintf(skillsPrompt, kind, truncate(text, maxInputChars)))
	if err != nil {
		return nil, fmt.Errorf("extract skills: %w", err)
	}
	skills, err := ParseSkills(raw)
	if err != nil {
		return nil, fmt.Errorf("extract skills: %w", err)
	}
	return skills, nil
}

func (c *Client) ScoreMatch(ctx context.Context, in MatchInput) (MatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(matchPrompt,
		in.JobTitle,
		strings.Join(in.JobSkills, ", "),
		truncate(in.JobText, maxMatchChars),
		strings.Join(in.ResumeSkills, ", "),
		truncate(in.ResumeText, maxMatchChars),
	)
	raw, err := c.provider.Complete(ctx, matchSystem, prompt)
	if err != nil {
		return MatchResult{}, fmt.Errorf("score match: %w", err)
	}
	res, err := ParseMatch(raw)
	if err != nil {
		return MatchResult{}, fmt.Errorf("score match: %w", err)
	}
	return Normalize(res), nil
}

// ParseSkills accepts {"skills": [...]}, a bare JSON array, or a comma separated list,
// optionally wrapped in a markdown code fence.
func ParseSkills(raw string) ([]string, error) {
	clean := stripFence(raw)
	if clean == "" {
		return nil, ErrMalformedReply
	}

	var obj struct {
		Skills []string `json:"skills"`
	}
	var arr []string
	switch {
	case strings.HasPrefix(clean, "{"):
		if err := json.Unmarshal([]byte(clean), &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
		}
		arr = obj.Skills
	case strings.HasPrefix(clean, "["):
		if err := json.Unmarshal([]byte(clean), &arr); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
		}
	default:
		arr = strings.Split(clean, ",")
	}
	return CleanSkills(arr), nil
}

var stopWords = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "with": {}, "for": {}, "in": {}, "on": {}, "at": {},
}

// CleanSkills trims whitespace, quotes and a trailing period (".NET" keeps its dot),
// drops one-character and filler words, removes case-insensitive duplicates
// keeping the first spelling, and caps the list.
func CleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = trimSkill(s)
		key := strings.ToLower(s)
		if len(s) <= 1 {
			continue
		}
		if _, ok := stopWords[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
		if len(out) == maxSkills {
			break
		}
	}
	return out
}

// trimSkill strips surrounding quotes and one trailing period, in either order.
func trimSkill(s string) string {
	const quotes = `"'`
	s = strings.Trim(strings.TrimSpace(s), quotes)
	return strings.Trim(strings.TrimSuffix(s, "."), quotes)
}

func ParseMatch(raw string) (MatchResult, error) {
	clean := stripFence(raw)

	// the score sometimes comes back as a float or a string
	var wire struct {
		Score          json.Number `json:"match_score"`
		MatchingSkills []string    `json:"matching_skills"`
		MissingSkills  []string    `json:"missing_skills"`
		Explanation    string      `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(clean), &wire); err != nil {
		return MatchResult{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	f, err := wire.Score.Float64()
	if err != nil {
		return MatchResult{}, fmt.Errorf("%w: match_score %q", ErrMalformedReply, wire.Score)
	}
	f = math.Max(0, math.Min(100, f))
	return MatchResult{
		Score:          int(f + 0.5),
		MatchingSkills: wire.MatchingSkills,
		MissingSkills:  wire.MissingSkills,
		Explanation:    strings.TrimSpace(wire.Explanation),
	}, nil
}

// Normalize clamps the score to [0,100], cleans both skill lists and removes
// from MissingSkills anything also listed in MatchingSkills.
func Normalize(r MatchResult) MatchResult {
	switch {
	case r.Score < 0:
		r.Score = 0
	case r.Score > 100:
		r.Score = 100
	}

	r.MatchingSkills = CleanSkills(r.MatchingSkills)
	have := make(map[string]struct{}, len(r.MatchingSkills))
	for _, s := range r.MatchingSkills {
		have[strings.ToLower(s)] = struct{}{}
	}

	missing := CleanSkills(r.MissingSkills)
	r.MissingSkills = missing[:0]
	for _, s := range missing {
		if _, ok := have[strings.ToLower(s)]; !ok {
			r.MissingSkills = append(r.MissingSkills, s)
		}
	}
	return r
}

// Degraded is the substitute result when scoring fails.
func Degraded() MatchResult {
	return MatchResult{MatchingSkills: []string{}, MissingSkills: []string{}}
}

func stripFence(raw string) string {
	clean := strings.TrimSpace(raw)
	if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```json")
		clean = strings.TrimPrefix(clean, "```")
		clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	}
	return strings.TrimSpace(clean)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
