package defect

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/domain/defect"
	"github.com/skute123/genai-defect-management/internal/infrastructure/cache"
)

const analyticsCacheTTL = 5 * time.Minute

// AnalyticsService computes categorical defect distributions
type AnalyticsService struct {
	repo   defect.Repository
	cache  cache.Cache
	logger *zap.Logger
}

// NewAnalyticsService creates the analytics service
func NewAnalyticsService(repo defect.Repository, c cache.Cache, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, cache: c, logger: logger}
}

// OSFSystemDistribution breaks down defects by affected OSF system
func (s *AnalyticsService) OSFSystemDistribution(ctx context.Context, env string) ([]DistributionDTO, error) {
	return s.distribution(ctx, env, "osf_system", defect.Repository.CountByOSFSystem)
}

// VendorApplicationDistribution breaks down defects by vendor and
// application
func (s *AnalyticsService) VendorApplicationDistribution(ctx context.Context, env string) ([]DistributionDTO, error) {
	return s.distribution(ctx, env, "vendor_application", defect.Repository.CountByVendorApplication)
}

func (s *AnalyticsService) distribution(
	ctx context.Context,
	env, name string,
	count func(defect.Repository, context.Context, defect.Environment) ([]defect.Distribution, error),
) ([]DistributionDTO, error) {
	environment, err := defect.ParseEnvironment(env)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("analytics:%s:%s", name, environment)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var dtos []DistributionDTO
		if err := json.Unmarshal([]byte(cached), &dtos); err == nil {
			return dtos, nil
		}
	}

	dist, err := count(s.repo, ctx, environment)
	if err != nil {
		return nil, err
	}
	dtos := withPercentages(dist)

	if data, err := json.Marshal(dtos); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(data), analyticsCacheTTL); err != nil {
			s.logger.Warn("Failed to cache distribution", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return dtos, nil
}

// withPercentages derives each bucket's share of the total, rounded
// to two decimal places
func withPercentages(dist []defect.Distribution) []DistributionDTO {
	var total int64
	for _, d := range dist {
		total += d.Count
	}

	dtos := make([]DistributionDTO, len(dist))
	for i, d := range dist {
		label := d.Label
		if label == "" {
			label = "Unspecified"
		}
		var pct float64
		if total > 0 {
			pct = decimal.NewFromInt(d.Count).
				Div(decimal.NewFromInt(total)).
				Mul(decimal.NewFromInt(100)).
				Round(2).
				InexactFloat64()
		}
		dtos[i] = DistributionDTO{Label: label, Count: d.Count, Percentage: pct}
	}
	return dtos
}
