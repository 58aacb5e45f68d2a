package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/stellar-edu/stellar-admin-api/internal/models"
	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
)

const progressCacheKey = "dashboard:progress:sections"

// ProgressFetcher is the slice of the platform client the progress
// service consumes.
type ProgressFetcher interface {
	FetchProgress(ctx context.Context) ([]models.SectionStat, error)
	FetchStudents(ctx context.Context, gradeLevel int, section string) ([]models.StudentRecord, error)
	FetchStudentDetails(ctx context.Context, userID string) (*models.StudentDetail, error)
}

// FetchMeta describes where a payload came from.
type FetchMeta struct {
	CacheHit bool
	Sample   bool
}

// GradeSections is one grade's section labels, used by the drill-down
// navigation index.
type GradeSections struct {
	GradeLevel int      `json:"gradeLevel"`
	Sections   []string `json:"sections"`
}

// ProgressService serves the per-section and per-grade progress views.
type ProgressService struct {
	fetcher ProgressFetcher
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	ttl     time.Duration
}

// ProgressServiceParams configures NewProgressService.
type ProgressServiceParams struct {
	Fetcher  ProgressFetcher
	Cache    *CacheService
	Metrics  *MetricsService
	Logger   *zap.Logger
	CacheTTL time.Duration
}

// NewProgressService builds a ProgressService.
func NewProgressService(params ProgressServiceParams) *ProgressService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProgressService{
		fetcher: params.Fetcher,
		cache:   params.Cache,
		metrics: params.Metrics,
		logger:  logger,
		ttl:     ttl,
	}
}

func (s *ProgressService) observeCache(hit bool) {
	if s.metrics != nil {
		s.metrics.ObserveCache(hit)
	}
}

// SectionStats returns all per-section progress rows, cache-aside with
// a sample fallback when the platform backend is unreachable.
func (s *ProgressService) SectionStats(ctx context.Context) ([]models.SectionStat, FetchMeta, error) {
	var cached []models.SectionStat
	if s.cache.Get(ctx, progressCacheKey, &cached) {
		s.observeCache(true)
		return cached, FetchMeta{CacheHit: true}, nil
	}
	s.observeCache(false)

	stats, err := s.fetcher.FetchProgress(ctx)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrUpstream.Code {
			s.logger.Warn("progress fetch failed, serving sample data", zap.Error(err))
			return sampleSectionStats(), FetchMeta{Sample: true}, nil
		}
		return nil, FetchMeta{}, err
	}

	s.cache.Set(ctx, progressCacheKey, stats, s.ttl)
	return stats, FetchMeta{}, nil
}

// SectionsForGrade returns the section rows of one grade level, in the
// order the backend lists them.
func (s *ProgressService) SectionsForGrade(ctx context.Context, gradeLevel int) ([]models.SectionStat, FetchMeta, error) {
	if gradeLevel <= 0 {
		return nil, FetchMeta{}, appErrors.Clone(appErrors.ErrValidation, "gradeLevel must be positive")
	}

	stats, meta, err := s.SectionStats(ctx)
	if err != nil {
		return nil, meta, err
	}

	filtered := make([]models.SectionStat, 0, len(stats))
	for _, stat := range stats {
		if stat.GradeLevel == gradeLevel {
			filtered = append(filtered, stat)
		}
	}
	return filtered, meta, nil
}

// SectionIndex lists each grade's section labels in first-occurrence
// order. Labels are kept as-is, duplicates included: a duplicate row
// from the backend is a data problem the dashboard should make visible
// rather than paper over.
func (s *ProgressService) SectionIndex(ctx context.Context) ([]GradeSections, FetchMeta, error) {
	stats, meta, err := s.SectionStats(ctx)
	if err != nil {
		return nil, meta, err
	}

	index := make([]GradeSections, 0)
	positions := make(map[int]int)
	for _, stat := range stats {
		pos, ok := positions[stat.GradeLevel]
		if !ok {
			pos = len(index)
			positions[stat.GradeLevel] = pos
			index = append(index, GradeSections{GradeLevel: stat.GradeLevel})
		}
		index[pos].Sections = append(index[pos].Sections, stat.Section)
	}
	return index, meta, nil
}

// GradeRollups aggregates the section rows into one rollup per grade
// level, in first-occurrence order.
//
// Averages are unweighted means over the grade's sections. The activity
// series is averaged index by index over the label window of the
// grade's first section; sections whose series is shorter contribute 0
// for the missing days.
func (s *ProgressService) GradeRollups(ctx context.Context) ([]models.GradeRollup, FetchMeta, error) {
	stats, meta, err := s.SectionStats(ctx)
	if err != nil {
		return nil, meta, err
	}
	return AggregateByGrade(stats), meta, nil
}

// AggregateByGrade groups section rows into grade rollups.
func AggregateByGrade(stats []models.SectionStat) []models.GradeRollup {
	rollups := make([]models.GradeRollup, 0)
	positions := make(map[int]int)

	for _, stat := range stats {
		pos, ok := positions[stat.GradeLevel]
		if !ok {
			pos = len(rollups)
			positions[stat.GradeLevel] = pos
			rollups = append(rollups, models.GradeRollup{GradeLevel: stat.GradeLevel})
		}
		rollups[pos].Sections = append(rollups[pos].Sections, stat)
	}

	for i := range rollups {
		sections := rollups[i].Sections
		n := float64(len(sections))

		var storySum, accuracySum float64
		for _, section := range sections {
			storySum += section.AvgStoryLevel
			accuracySum += section.AvgAccuracy
		}
		rollups[i].AvgStoryLevel = round1(storySum / n)
		rollups[i].AvgAccuracy = math.Round(accuracySum / n)

		labels := sections[0].ActivityLabels
		rollups[i].ActivityLabels = labels
		rollups[i].AvgActivityData = averageActivity(sections, len(labels))
	}

	return rollups
}

func averageActivity(sections []models.SectionStat, days int) []int {
	out := make([]int, days)
	for day := 0; day < days; day++ {
		var sum int
		for _, section := range sections {
			if day < len(section.ActivityData) {
				sum += section.ActivityData[day]
			}
		}
		out[day] = int(math.Round(float64(sum) / float64(len(sections))))
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Students returns the roster of one class section.
func (s *ProgressService) Students(ctx context.Context, gradeLevel int, section string) ([]models.StudentRecord, error) {
	if gradeLevel <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "gradeLevel must be positive")
	}
	if section == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section is required")
	}
	return s.fetcher.FetchStudents(ctx, gradeLevel, section)
}

// StudentDetail returns the drill-down bundle for one student.
func (s *ProgressService) StudentDetail(ctx context.Context, userID string) (*models.StudentDetail, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	return s.fetcher.FetchStudentDetails(ctx, userID)
}
