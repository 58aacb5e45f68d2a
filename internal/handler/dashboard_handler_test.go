package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-edu/stellar-admin-api/internal/dto"
	"github.com/stellar-edu/stellar-admin-api/internal/models"
	"github.com/stellar-edu/stellar-admin-api/internal/service"
	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
	"github.com/stellar-edu/stellar-admin-api/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProgressReader struct {
	rollups  []models.GradeRollup
	sections []models.SectionStat
	index    []service.GradeSections
	students []models.StudentRecord
	detail   *models.StudentDetail
	meta     service.FetchMeta
	err      error
}

func (f *fakeProgressReader) GradeRollups(context.Context) ([]models.GradeRollup, service.FetchMeta, error) {
	return f.rollups, f.meta, f.err
}

func (f *fakeProgressReader) SectionsForGrade(context.Context, int) ([]models.SectionStat, service.FetchMeta, error) {
	return f.sections, f.meta, f.err
}

func (f *fakeProgressReader) SectionIndex(context.Context) ([]service.GradeSections, service.FetchMeta, error) {
	return f.index, f.meta, f.err
}

func (f *fakeProgressReader) Students(context.Context, int, string) ([]models.StudentRecord, error) {
	return f.students, f.err
}

func (f *fakeProgressReader) StudentDetail(context.Context, string) (*models.StudentDetail, error) {
	return f.detail, f.err
}

type fakeOverviewReader struct {
	snapshot *models.OverviewSnapshot
	mastery  *models.GameMasterySet
	meta     service.FetchMeta
	err      error
}

func (f *fakeOverviewReader) Overview(context.Context) (*models.OverviewSnapshot, service.FetchMeta, error) {
	return f.snapshot, f.meta, f.err
}

func (f *fakeOverviewReader) GameMastery(context.Context, int) (*models.GameMasterySet, service.FetchMeta, error) {
	return f.mastery, f.meta, f.err
}

func newDashboardRouter(progress ProgressReader, overview OverviewReader) *gin.Engine {
	router := gin.New()
	NewDashboardHandler(progress, overview).RegisterRoutes(router)
	return router
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestGradeProgress(t *testing.T) {
	progress := &fakeProgressReader{rollups: []models.GradeRollup{{GradeLevel: 5, AvgStoryLevel: 33}}}
	router := newDashboardRouter(progress, &fakeOverviewReader{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/progress", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Nil(t, envelope.Error)
	assert.Nil(t, envelope.Meta)
}

func TestGradeProgressSampleMeta(t *testing.T) {
	progress := &fakeProgressReader{meta: service.FetchMeta{Sample: true}}
	router := newDashboardRouter(progress, &fakeOverviewReader{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/progress", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, true, envelope.Meta["sample"])
}

func TestGradeProgressSortsAscending(t *testing.T) {
	progress := &fakeProgressReader{rollups: []models.GradeRollup{
		{GradeLevel: 6, AvgStoryLevel: 50},
		{GradeLevel: 4, AvgStoryLevel: 15},
		{GradeLevel: 5, AvgStoryLevel: 33},
	}}
	router := newDashboardRouter(progress, &fakeOverviewReader{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/progress", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []models.GradeRollup `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 3)
	assert.Equal(t, 4, envelope.Data[0].GradeLevel)
	assert.Equal(t, 5, envelope.Data[1].GradeLevel)
	assert.Equal(t, 6, envelope.Data[2].GradeLevel)
}

func TestSectionProgressRequiresGrade(t *testing.T) {
	router := newDashboardRouter(&fakeProgressReader{}, &fakeOverviewReader{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/progress/sections", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSectionProgressPassesQuery(t *testing.T) {
	progress := &fakeProgressReader{sections: []models.SectionStat{{GradeLevel: 5, Section: "B1"}}}
	router := newDashboardRouter(progress, &fakeOverviewReader{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/progress/sections?gradeLevel=5", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOverviewErrorMapsStatus(t *testing.T) {
	router := newDashboardRouter(&fakeProgressReader{}, &fakeOverviewReader{err: appErrors.ErrUnauthorized})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/overview", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, envelope.Error.Code)
}

func TestGameMasteryRejectsBadGrade(t *testing.T) {
	router := newDashboardRouter(&fakeProgressReader{}, &fakeOverviewReader{mastery: &models.GameMasterySet{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/gamemastery?gradeLevel=abc", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudentsEndpointAttachesSummary(t *testing.T) {
	progress := &fakeProgressReader{students: []models.StudentRecord{
		{UserID: "u1", Name: "Ana", StoryProgress: 20, GameScores: models.GameScores{TextExtract: 80}},
		{UserID: "u2", Name: "Ben", StoryProgress: 10},
	}}
	router := newDashboardRouter(progress, &fakeOverviewReader{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/class/students?gradeLevel=5&section=B1", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data dto.ClassRosterResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Students, 2)
	assert.Equal(t, "Ana", envelope.Data.Students[0].Name)

	// The summary is the same reducer the section report uses.
	assert.Equal(t, 2, envelope.Data.Summary.StudentCount)
	assert.Equal(t, 1, envelope.Data.Summary.StudentCountWithScores)
	assert.Equal(t, 80.0, envelope.Data.Summary.AvgTextExtract)
	assert.Equal(t, 15.0, envelope.Data.Summary.AvgStoryProgress)
}

func TestStudentDetailNotFound(t *testing.T) {
	router := newDashboardRouter(&fakeProgressReader{err: appErrors.ErrNotFound}, &fakeOverviewReader{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/u404", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
