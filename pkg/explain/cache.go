package explain

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

// CachedExplainer wraps another explainer with a two-tier cache: an
// in-process LRU and an optional shared Redis tier. Explanation text is
// a pure function of the gene, diplotype, phenotype, drug and risk
// outcome, so caching on those fields is safe across patients.
type CachedExplainer struct {
	inner domain.Explainer
	local *lru.Cache[string, *domain.Explanation]
	redis *redis.Client
	ttl   time.Duration
	log   *logrus.Logger
}

// NewCachedExplainer wraps inner with caching. redisClient may be nil
// to run with only the in-process tier.
func NewCachedExplainer(inner domain.Explainer, size int, ttl time.Duration, redisClient *redis.Client, logger *logrus.Logger) (*CachedExplainer, error) {
	if size <= 0 {
		size = 256
	}
	local, err := lru.New[string, *domain.Explanation](size)
	if err != nil {
		return nil, err
	}
	return &CachedExplainer{
		inner: inner,
		local: local,
		redis: redisClient,
		ttl:   ttl,
		log:   logger,
	}, nil
}

// Explain implements domain.Explainer.
func (c *CachedExplainer) Explain(ctx context.Context, report *domain.AnalysisReport) (*domain.Explanation, error) {
	key := cacheKey(report)

	if exp, ok := c.local.Get(key); ok {
		return exp, nil
	}

	if c.redis != nil {
		if exp := c.fromRedis(ctx, key); exp != nil {
			c.local.Add(key, exp)
			return exp, nil
		}
	}

	exp, err := c.inner.Explain(ctx, report)
	if err != nil {
		return nil, err
	}

	c.local.Add(key, exp)
	if c.redis != nil {
		c.toRedis(ctx, key, exp)
	}
	return exp, nil
}

func (c *CachedExplainer) fromRedis(ctx context.Context, key string) *domain.Explanation {
	raw, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).Debug("Redis explanation cache read failed")
		}
		return nil
	}
	var exp domain.Explanation
	if err := json.Unmarshal([]byte(raw), &exp); err != nil {
		return nil
	}
	return &exp
}

func (c *CachedExplainer) toRedis(ctx context.Context, key string, exp *domain.Explanation) {
	raw, err := json.Marshal(exp)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.WithError(err).Debug("Redis explanation cache write failed")
	}
}

// cacheKey derives the cache key from every report field the
// explanation text depends on.
func cacheKey(report *domain.AnalysisReport) string {
	parts := []string{
		"explain",
		report.Drug,
		report.Risk.Gene,
		report.Profile.Diplotype.String(),
		report.Profile.Phenotype.String(),
		report.Risk.RiskLabel.String(),
		rsidList(report.Profile.DetectedVariants),
	}
	return strings.Join(parts, "|")
}
