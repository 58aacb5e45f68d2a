package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-edu/stellar-admin-api/internal/models"
	"github.com/stellar-edu/stellar-admin-api/internal/service"
	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
)

type fakeReportRenderer struct {
	result *service.ExportResult
	err    error

	gotGrade   int
	gotSection string
	gotFormat  models.ReportFormat
}

func (f *fakeReportRenderer) OverallReport(_ context.Context, format models.ReportFormat) (*service.ExportResult, error) {
	f.gotFormat = format
	return f.result, f.err
}

func (f *fakeReportRenderer) SectionReport(_ context.Context, gradeLevel int, section string, format models.ReportFormat) (*service.ExportResult, error) {
	f.gotGrade = gradeLevel
	f.gotSection = section
	f.gotFormat = format
	return f.result, f.err
}

func newReportRouter(renderer ReportRenderer) *gin.Engine {
	router := gin.New()
	NewReportHandler(renderer).RegisterRoutes(router)
	return router
}

func TestOverallReportDownload(t *testing.T) {
	renderer := &fakeReportRenderer{result: &service.ExportResult{
		Filename:    "STELLAR_Overall_Report_2026-03-14.csv",
		ContentType: "text/csv",
		Body:        []byte("Grade,Section\n"),
	}}
	router := newReportRouter(renderer)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/overall?format=csv", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.FormatCSV, renderer.gotFormat)
	assert.Equal(t, `attachment; filename="STELLAR_Overall_Report_2026-03-14.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
}

func TestOverallReportDefaultsToPDF(t *testing.T) {
	renderer := &fakeReportRenderer{result: &service.ExportResult{
		Filename:    "STELLAR_Overall_Report_2026-03-14.pdf",
		ContentType: "application/pdf",
		Body:        []byte("%PDF-1.3"),
	}}
	router := newReportRouter(renderer)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/overall", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.FormatPDF, renderer.gotFormat)
}

func TestSectionReportDownload(t *testing.T) {
	renderer := &fakeReportRenderer{result: &service.ExportResult{
		Filename:    "STELLAR_Grade5_SectionB1_Report_2026-03-14.pdf",
		ContentType: "application/pdf",
		Body:        []byte("%PDF-1.3"),
	}}
	router := newReportRouter(renderer)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/section?gradeLevel=5&section=B1", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, renderer.gotGrade)
	assert.Equal(t, "B1", renderer.gotSection)
	assert.Equal(t, `attachment; filename="STELLAR_Grade5_SectionB1_Report_2026-03-14.pdf"`, rec.Header().Get("Content-Disposition"))
}

func TestSectionReportRequiresGrade(t *testing.T) {
	router := newReportRouter(&fakeReportRenderer{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/section?section=B1", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportErrorMapsStatus(t *testing.T) {
	router := newReportRouter(&fakeReportRenderer{err: appErrors.ErrNotFound})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/overall?format=csv", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
