package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-edu/stellar-admin-api/internal/models"
	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
)

type fakeProgressFetcher struct {
	stats      []models.SectionStat
	students   []models.StudentRecord
	detail     *models.StudentDetail
	err        error
	fetchCalls int
}

func (f *fakeProgressFetcher) FetchProgress(context.Context) ([]models.SectionStat, error) {
	f.fetchCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeProgressFetcher) FetchStudents(context.Context, int, string) ([]models.StudentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.students, nil
}

func (f *fakeProgressFetcher) FetchStudentDetails(context.Context, string) (*models.StudentDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func sectionStatsFixture() []models.SectionStat {
	return []models.SectionStat{
		{GradeLevel: 5, Section: "B1", StudentCount: 30, AvgStoryLevel: 30, AvgAccuracy: 70, ActivityLabels: []string{"Mon", "Tue", "Wed"}, ActivityData: []int{10, 20, 30}},
		{GradeLevel: 5, Section: "B2", StudentCount: 28, AvgStoryLevel: 40, AvgAccuracy: 80, ActivityLabels: []string{"Mon", "Tue", "Wed"}, ActivityData: []int{20, 30}},
		{GradeLevel: 4, Section: "A1", StudentCount: 32, AvgStoryLevel: 15, AvgAccuracy: 65, ActivityLabels: []string{"Mon", "Tue"}, ActivityData: []int{12, 14}},
	}
}

func newProgressService(f ProgressFetcher) *ProgressService {
	return NewProgressService(ProgressServiceParams{Fetcher: f})
}

func TestAggregateByGrade(t *testing.T) {
	rollups := AggregateByGrade(sectionStatsFixture())
	require.Len(t, rollups, 2)

	// Grouping preserves backend order: grade 5 appeared first.
	grade5 := rollups[0]
	assert.Equal(t, 5, grade5.GradeLevel)
	require.Len(t, grade5.Sections, 2)
	assert.Equal(t, 35.0, grade5.AvgStoryLevel)
	assert.Equal(t, 75.0, grade5.AvgAccuracy)
	assert.Equal(t, []string{"Mon", "Tue", "Wed"}, grade5.ActivityLabels)
	// Wed is missing from B2 and counts as 0: (30+0)/2 = 15.
	assert.Equal(t, []int{15, 25, 15}, grade5.AvgActivityData)

	grade4 := rollups[1]
	assert.Equal(t, 4, grade4.GradeLevel)
	assert.Equal(t, 15.0, grade4.AvgStoryLevel)
	assert.Equal(t, []int{12, 14}, grade4.AvgActivityData)
}

func TestAggregateByGradeRounding(t *testing.T) {
	rollups := AggregateByGrade([]models.SectionStat{
		{GradeLevel: 4, Section: "A1", AvgStoryLevel: 10, AvgAccuracy: 70, ActivityLabels: []string{"Mon"}, ActivityData: []int{3}},
		{GradeLevel: 4, Section: "A2", AvgStoryLevel: 10.11, AvgAccuracy: 71, ActivityLabels: []string{"Mon"}, ActivityData: []int{4}},
	})
	require.Len(t, rollups, 1)

	// Story level keeps one decimal, accuracy rounds to the nearest
	// whole percent: (70+71)/2 = 70.5 -> 71.
	assert.Equal(t, 10.1, rollups[0].AvgStoryLevel)
	assert.Equal(t, 71.0, rollups[0].AvgAccuracy)
	// (3+4)/2 = 3.5 rounds to 4.
	assert.Equal(t, []int{4}, rollups[0].AvgActivityData)
}

func TestSectionsForGradeFilters(t *testing.T) {
	svc := newProgressService(&fakeProgressFetcher{stats: sectionStatsFixture()})

	sections, meta, err := svc.SectionsForGrade(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "B1", sections[0].Section)
	assert.Equal(t, "B2", sections[1].Section)
	assert.False(t, meta.Sample)

	sections, _, err = svc.SectionsForGrade(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, sections)

	_, _, err = svc.SectionsForGrade(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSectionIndexKeepsOrderAndDuplicates(t *testing.T) {
	stats := append(sectionStatsFixture(), models.SectionStat{GradeLevel: 5, Section: "B1"})
	svc := newProgressService(&fakeProgressFetcher{stats: stats})

	index, _, err := svc.SectionIndex(context.Background())
	require.NoError(t, err)
	require.Len(t, index, 2)

	assert.Equal(t, 5, index[0].GradeLevel)
	assert.Equal(t, []string{"B1", "B2", "B1"}, index[0].Sections)
	assert.Equal(t, 4, index[1].GradeLevel)
	assert.Equal(t, []string{"A1"}, index[1].Sections)
}

func TestSectionStatsServesSampleOnUpstreamFailure(t *testing.T) {
	svc := newProgressService(&fakeProgressFetcher{err: appErrors.ErrUpstream})

	stats, meta, err := svc.SectionStats(context.Background())
	require.NoError(t, err)
	assert.True(t, meta.Sample)
	assert.NotEmpty(t, stats)
}

func TestSectionStatsPropagatesAuthErrors(t *testing.T) {
	svc := newProgressService(&fakeProgressFetcher{err: appErrors.ErrUnauthorized})

	_, _, err := svc.SectionStats(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

type stubCacheStore struct {
	data map[string][]byte
}

func (s *stubCacheStore) Get(_ context.Context, key string, dest any) error {
	payload, ok := s.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = payload
	return nil
}

func (s *stubCacheStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *stubCacheStore) DeleteByPattern(context.Context, string) error {
	s.data = map[string][]byte{}
	return nil
}

func TestSectionStatsUsesCache(t *testing.T) {
	fetcher := &fakeProgressFetcher{stats: sectionStatsFixture()}
	cache := NewCacheService(&stubCacheStore{data: map[string][]byte{}}, nil)
	svc := NewProgressService(ProgressServiceParams{Fetcher: fetcher, Cache: cache})

	_, meta, err := svc.SectionStats(context.Background())
	require.NoError(t, err)
	assert.False(t, meta.CacheHit)

	stats, meta, err := svc.SectionStats(context.Background())
	require.NoError(t, err)
	assert.True(t, meta.CacheHit)
	assert.Len(t, stats, 3)
	assert.Equal(t, 1, fetcher.fetchCalls)
}

func TestStudentsValidatesInput(t *testing.T) {
	svc := newProgressService(&fakeProgressFetcher{students: []models.StudentRecord{{UserID: "u1"}}})

	students, err := svc.Students(context.Background(), 5, "B1")
	require.NoError(t, err)
	assert.Len(t, students, 1)

	_, err = svc.Students(context.Background(), 0, "B1")
	require.Error(t, err)

	_, err = svc.Students(context.Background(), 5, "")
	require.Error(t, err)
}
