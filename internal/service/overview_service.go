package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stellar-edu/stellar-admin-api/internal/models"
	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
)

const (
	overviewCacheKey    = "dashboard:overview"
	gameMasteryCacheKey = "dashboard:gamemastery:%d"
)

// OverviewFetcher is the slice of the platform client the overview
// service consumes.
type OverviewFetcher interface {
	FetchOverview(ctx context.Context) (*models.OverviewSnapshot, error)
	FetchChallengeAttempts(ctx context.Context) (*models.ChallengeAttempts, error)
	FetchGameMastery(ctx context.Context, gradeLevel int) (*models.GameMasterySet, error)
}

// OverviewService serves the landing page snapshot and the game
// mastery view.
type OverviewService struct {
	fetcher OverviewFetcher
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	ttl     time.Duration
}

// OverviewServiceParams configures NewOverviewService.
type OverviewServiceParams struct {
	Fetcher  OverviewFetcher
	Cache    *CacheService
	Metrics  *MetricsService
	Logger   *zap.Logger
	CacheTTL time.Duration
}

// NewOverviewService builds an OverviewService.
func NewOverviewService(params OverviewServiceParams) *OverviewService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OverviewService{
		fetcher: params.Fetcher,
		cache:   params.Cache,
		metrics: params.Metrics,
		logger:  logger,
		ttl:     ttl,
	}
}

func (s *OverviewService) observeCache(hit bool) {
	if s.metrics != nil {
		s.metrics.ObserveCache(hit)
	}
}

// Overview joins the school snapshot and the challenge attempt counts
// into one payload. The two upstream calls run concurrently; if either
// fails the whole payload falls back to sample data rather than mixing
// live and demo numbers.
func (s *OverviewService) Overview(ctx context.Context) (*models.OverviewSnapshot, FetchMeta, error) {
	var cached models.OverviewSnapshot
	if s.cache.Get(ctx, overviewCacheKey, &cached) {
		s.observeCache(true)
		return &cached, FetchMeta{CacheHit: true}, nil
	}
	s.observeCache(false)

	var (
		snapshot *models.OverviewSnapshot
		attempts *models.ChallengeAttempts
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		snapshot, err = s.fetcher.FetchOverview(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		attempts, err = s.fetcher.FetchChallengeAttempts(groupCtx)
		return err
	})

	if err := group.Wait(); err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrUpstream.Code {
			s.logger.Warn("overview fetch failed, serving sample data", zap.Error(err))
			return sampleOverview(), FetchMeta{Sample: true}, nil
		}
		return nil, FetchMeta{}, err
	}

	snapshot.ChallengeAttempts = *attempts
	s.cache.Set(ctx, overviewCacheKey, snapshot, s.ttl)
	return snapshot, FetchMeta{}, nil
}

// GameMastery returns per-game averages and leaderboards. gradeLevel 0
// means the whole school.
func (s *OverviewService) GameMastery(ctx context.Context, gradeLevel int) (*models.GameMasterySet, FetchMeta, error) {
	if gradeLevel < 0 {
		return nil, FetchMeta{}, appErrors.Clone(appErrors.ErrValidation, "gradeLevel must not be negative")
	}

	key := fmt.Sprintf(gameMasteryCacheKey, gradeLevel)
	var cached models.GameMasterySet
	if s.cache.Get(ctx, key, &cached) {
		s.observeCache(true)
		return &cached, FetchMeta{CacheHit: true}, nil
	}
	s.observeCache(false)

	mastery, err := s.fetcher.FetchGameMastery(ctx, gradeLevel)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrUpstream.Code {
			s.logger.Warn("game mastery fetch failed, serving sample data",
				zap.Int("gradeLevel", gradeLevel), zap.Error(err))
			return sampleGameMastery(), FetchMeta{Sample: true}, nil
		}
		return nil, FetchMeta{}, err
	}

	s.cache.Set(ctx, key, mastery, s.ttl)
	return mastery, FetchMeta{}, nil
}
