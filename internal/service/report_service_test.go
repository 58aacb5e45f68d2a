package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-edu/stellar-admin-api/internal/models"
	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
)

type fakeReportFetcher struct {
	stats    []models.SectionStat
	students []models.StudentRecord
	err      error
}

func (f *fakeReportFetcher) FetchProgress(context.Context) ([]models.SectionStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeReportFetcher) FetchStudents(context.Context, int, string) ([]models.StudentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.students, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
}

func rosterFixture() []models.StudentRecord {
	login := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	return []models.StudentRecord{
		{UserID: "u1", Name: "Ana", StoryProgress: 20, ExperiencePoints: 400, GameScores: models.GameScores{TextExtract: 80, TwoTruths: 60, StatementScrutinize: 40}, LastLogin: &login},
		{UserID: "u2", Name: "Ben", StoryProgress: 10, ExperiencePoints: 200, GameScores: models.GameScores{TextExtract: 40}},
		{UserID: "u3", Name: "Carla", StoryProgress: 6, ExperiencePoints: 100},
		{UserID: "u4", Name: "Dan", StoryProgress: 4, ExperiencePoints: 100},
	}
}

func TestSectionAveragesUsesAsymmetricDenominators(t *testing.T) {
	agg := SectionAverages(rosterFixture())

	assert.Equal(t, 4, agg.StudentCount)
	// Carla and Dan have no game scores at all.
	assert.Equal(t, 2, agg.StudentCountWithScores)

	// Game averages divide by the two scoring students.
	assert.Equal(t, 60.0, agg.AvgTextExtract)
	assert.Equal(t, 30.0, agg.AvgTwoTruths)
	assert.Equal(t, 20.0, agg.AvgStatementScrutinize)

	// Story and experience divide by the whole roster.
	assert.Equal(t, 10.0, agg.AvgStoryProgress)
	assert.Equal(t, 200.0, agg.AvgExperiencePoints)
}

func TestSectionAveragesRoundToNearestInteger(t *testing.T) {
	agg := SectionAverages([]models.StudentRecord{
		{UserID: "u1", Name: "Ana", GameScores: models.GameScores{TextExtract: 80}},
		{UserID: "u2", Name: "Ben", GameScores: models.GameScores{TextExtract: 5}},
	})

	// (80+5)/2 = 42.5 rounds to 43, never 42.5.
	assert.Equal(t, 43.0, agg.AvgTextExtract)
}

func TestSectionAveragesEmptyRoster(t *testing.T) {
	agg := SectionAverages(nil)

	assert.Equal(t, 0, agg.StudentCount)
	assert.Equal(t, 0, agg.StudentCountWithScores)
	assert.Zero(t, agg.AvgTextExtract)
	assert.Zero(t, agg.AvgStoryProgress)
}

func TestOverallReportCSV(t *testing.T) {
	svc := NewReportService(ReportServiceParams{
		Fetcher: &fakeReportFetcher{stats: sectionStatsFixture()},
		Now:     fixedNow,
	})

	result, err := svc.OverallReport(context.Background(), models.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "STELLAR_Overall_Report_2026-03-14.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	lines := strings.Split(strings.TrimSpace(string(result.Body)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Grade,Section,Students,Avg Story Level,Avg Accuracy (%)", lines[0])
	assert.Equal(t, "5,B1,30,30.0,70.0", lines[1])
	assert.Equal(t, "4,A1,32,15.0,65.0", lines[3])
}

func TestOverallReportPDF(t *testing.T) {
	svc := NewReportService(ReportServiceParams{
		Fetcher: &fakeReportFetcher{stats: sectionStatsFixture()},
		Now:     fixedNow,
	})

	result, err := svc.OverallReport(context.Background(), models.FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "STELLAR_Overall_Report_2026-03-14.pdf", result.Filename)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Body), "%PDF"))
}

func TestOverallReportValidation(t *testing.T) {
	svc := NewReportService(ReportServiceParams{Fetcher: &fakeReportFetcher{}})

	_, err := svc.OverallReport(context.Background(), models.ReportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.OverallReport(context.Background(), models.FormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSectionReportCSV(t *testing.T) {
	svc := NewReportService(ReportServiceParams{
		Fetcher: &fakeReportFetcher{students: rosterFixture()},
		Now:     fixedNow,
	})

	result, err := svc.SectionReport(context.Background(), 5, "B1", models.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "STELLAR_Grade5_SectionB1_Report_2026-03-14.csv", result.Filename)

	lines := strings.Split(strings.TrimSpace(string(result.Body)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Ana,20/75,80,60,40,400,2026-03-10", lines[1])
	assert.Equal(t, "Carla,6/75,0,0,0,100,Never", lines[3])
}

func TestSectionReportPDFFilename(t *testing.T) {
	svc := NewReportService(ReportServiceParams{
		Fetcher: &fakeReportFetcher{students: rosterFixture()},
		Now:     fixedNow,
	})

	result, err := svc.SectionReport(context.Background(), 6, "C2", models.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "STELLAR_Grade6_SectionC2_Report_2026-03-14.pdf", result.Filename)
	assert.True(t, strings.HasPrefix(string(result.Body), "%PDF"))
}

func TestSectionReportValidation(t *testing.T) {
	svc := NewReportService(ReportServiceParams{Fetcher: &fakeReportFetcher{}})

	_, err := svc.SectionReport(context.Background(), 0, "B1", models.FormatCSV)
	require.Error(t, err)

	_, err = svc.SectionReport(context.Background(), 5, "", models.FormatCSV)
	require.Error(t, err)

	_, err = svc.SectionReport(context.Background(), 5, "B1", models.FormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSectionReportPropagatesUpstreamError(t *testing.T) {
	svc := NewReportService(ReportServiceParams{Fetcher: &fakeReportFetcher{err: appErrors.ErrUpstream}})

	_, err := svc.SectionReport(context.Background(), 5, "B1", models.FormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}
