package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobmatch/internal/cache"
)

// CachedExtractor memoizes non-empty skill extractions keyed by a hash of the input.
// Cache errors never fail the call.
type CachedExtractor struct {
	inner SkillExtractor
	cache cache.Cache
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewCachedExtractor(inner SkillExtractor, c cache.Cache, ttl time.Duration, log logrus.FieldLogger) *CachedExtractor {
	if log == nil {
		log = logrus.New()
	}
	return &CachedExtractor{inner: inner, cache: c, ttl: ttl, log: log}
}

func (e *CachedExtractor) ExtractSkills(ctx context.Context, text string, kind Kind) ([]string, error) {
	key := skillsKey(text, kind)

	var skills []string
	hit, err := e.cache.GetJSON(ctx, key, &skills)
	if err != nil {
		e.log.WithError(err).WithField("key", key).Warn("skill cache read failed")
	}
	if hit && len(skills) > 0 {
		return skills, nil
	}
	if hit {
		// empty results are never served from cache
		if err := e.cache.Del(ctx, key); err != nil {
			e.log.WithError(err).WithField("key", key).Warn("skill cache evict failed")
		}
	}

	skills, err = e.inner.ExtractSkills(ctx, text, kind)
	if err != nil {
		return nil, err
	}
	if len(skills) == 0 {
		return skills, nil
	}
	if err := e.cache.SetJSON(ctx, key, skills, e.ttl); err != nil {
		e.log.WithError(err).WithField("key", key).Warn("skill cache write failed")
	}
	return skills, nil
}

func skillsKey(text string, kind Kind) string {
	sum := sha256.Sum256([]byte(truncate(text, maxInputChars)))
	return "skills:" + string(kind) + ":" + hex.EncodeToString(sum[:])
}
