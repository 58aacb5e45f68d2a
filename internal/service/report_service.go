package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/stellar-edu/stellar-admin-api/internal/models"
	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
	"github.com/stellar-edu/stellar-admin-api/pkg/export"
)

// ReportFetcher is the slice of the platform client the report service
// consumes.
type ReportFetcher interface {
	FetchProgress(ctx context.Context) ([]models.SectionStat, error)
	FetchStudents(ctx context.Context, gradeLevel int, section string) ([]models.StudentRecord, error)
}

// ExportResult is a rendered report download.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ReportService renders the overall and per-section report downloads.
type ReportService struct {
	fetcher    ReportFetcher
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	schoolName string
	logger     *zap.Logger
	now        func() time.Time
}

// ReportServiceParams configures NewReportService.
type ReportServiceParams struct {
	Fetcher    ReportFetcher
	CSV        *export.CSVExporter
	PDF        *export.PDFExporter
	SchoolName string
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewReportService builds a ReportService.
func NewReportService(params ReportServiceParams) *ReportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	schoolName := params.SchoolName
	if schoolName == "" {
		schoolName = "STELLAR"
	}
	csv := params.CSV
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{
		fetcher:    params.Fetcher,
		csv:        csv,
		pdf:        pdf,
		schoolName: schoolName,
		logger:     logger,
		now:        now,
	}
}

// SectionAverages reduces a class roster into its report aggregate.
//
// Game score averages divide by the number of students that have at
// least one nonzero game score, so an idle half of the class does not
// drag down the mastery picture. Story progress and experience divide
// by the whole roster. All five averages round to the nearest integer.
func SectionAverages(students []models.StudentRecord) models.ReportAggregate {
	agg := models.ReportAggregate{StudentCount: len(students)}

	var extractSum, truthSum, scrutinizeSum int
	var storySum, xpSum int
	for _, student := range students {
		scores := student.GameScores
		if scores.TextExtract > 0 || scores.TwoTruths > 0 || scores.StatementScrutinize > 0 {
			agg.StudentCountWithScores++
		}
		extractSum += scores.TextExtract
		truthSum += scores.TwoTruths
		scrutinizeSum += scores.StatementScrutinize
		storySum += student.StoryProgress
		xpSum += student.ExperiencePoints
	}

	if agg.StudentCountWithScores > 0 {
		n := float64(agg.StudentCountWithScores)
		agg.AvgTextExtract = math.Round(float64(extractSum) / n)
		agg.AvgTwoTruths = math.Round(float64(truthSum) / n)
		agg.AvgStatementScrutinize = math.Round(float64(scrutinizeSum) / n)
	}
	if agg.StudentCount > 0 {
		n := float64(agg.StudentCount)
		agg.AvgStoryProgress = math.Round(float64(storySum) / n)
		agg.AvgExperiencePoints = math.Round(float64(xpSum) / n)
	}

	return agg
}

// OverallReport renders the school-wide report in the given format.
func (s *ReportService) OverallReport(ctx context.Context, format models.ReportFormat) (*ExportResult, error) {
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	stats, err := s.fetcher.FetchProgress(ctx)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no progress data to report")
	}

	headers := []string{"Grade", "Section", "Students", "Avg Story Level", "Avg Accuracy (%)"}
	rows := make([]map[string]string, 0, len(stats))
	totalStudents := 0
	var storySum, accuracySum float64
	for _, stat := range stats {
		totalStudents += stat.StudentCount
		storySum += stat.AvgStoryLevel
		accuracySum += stat.AvgAccuracy
		rows = append(rows, map[string]string{
			"Grade":            strconv.Itoa(stat.GradeLevel),
			"Section":          stat.Section,
			"Students":         strconv.Itoa(stat.StudentCount),
			"Avg Story Level":  formatFloat(stat.AvgStoryLevel),
			"Avg Accuracy (%)": formatFloat(stat.AvgAccuracy),
		})
	}
	n := float64(len(stats))

	date := s.now().Format("2006-01-02")
	dataset := export.Dataset{Headers: headers, Rows: rows}

	if format == models.FormatCSV {
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.ErrInternal.Wrap(err)
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s_Overall_Report_%s.csv", s.schoolName, date),
			ContentType: "text/csv",
			Body:        body,
		}, nil
	}

	body, err := s.pdf.Render(export.Report{
		Title:       s.schoolName + " Overall Progress Report",
		Subtitle:    "All grade levels and sections",
		GeneratedAt: date,
		Summary: []export.SummaryStat{
			{Label: "Total Students", Value: strconv.Itoa(totalStudents)},
			{Label: "Sections", Value: strconv.Itoa(len(stats))},
			{Label: "Avg Story Level", Value: formatFloat(round1(storySum / n))},
			{Label: "Avg Accuracy", Value: formatFloat(round1(accuracySum/n)) + "%"},
		},
		Table:  dataset,
		Footer: s.schoolName + " Reading Adventure",
	})
	if err != nil {
		return nil, appErrors.ErrInternal.Wrap(err)
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("%s_Overall_Report_%s.pdf", s.schoolName, date),
		ContentType: "application/pdf",
		Body:        body,
	}, nil
}

// SectionReport renders one class section's report in the given format.
func (s *ReportService) SectionReport(ctx context.Context, gradeLevel int, section string, format models.ReportFormat) (*ExportResult, error) {
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if gradeLevel <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "gradeLevel must be positive")
	}
	if section == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section is required")
	}

	students, err := s.fetcher.FetchStudents(ctx, gradeLevel, section)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no students in section")
	}

	agg := SectionAverages(students)

	headers := []string{"Name", "Story Progress", "Text Extract", "Two Truths", "Statement Scrutinize", "Experience", "Last Login"}
	rows := make([]map[string]string, 0, len(students))
	for _, student := range students {
		lastLogin := "Never"
		if student.LastLogin != nil {
			lastLogin = student.LastLogin.Format("2006-01-02")
		}
		rows = append(rows, map[string]string{
			"Name":                 student.Name,
			"Story Progress":       fmt.Sprintf("%d/%d", student.StoryProgress, models.MaxStoryLevel),
			"Text Extract":         strconv.Itoa(student.GameScores.TextExtract),
			"Two Truths":           strconv.Itoa(student.GameScores.TwoTruths),
			"Statement Scrutinize": strconv.Itoa(student.GameScores.StatementScrutinize),
			"Experience":           strconv.Itoa(student.ExperiencePoints),
			"Last Login":           lastLogin,
		})
	}

	date := s.now().Format("2006-01-02")
	dataset := export.Dataset{Headers: headers, Rows: rows}
	base := fmt.Sprintf("%s_Grade%d_Section%s_Report_%s", s.schoolName, gradeLevel, section, date)

	if format == models.FormatCSV {
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.ErrInternal.Wrap(err)
		}
		return &ExportResult{Filename: base + ".csv", ContentType: "text/csv", Body: body}, nil
	}

	body, err := s.pdf.Render(export.Report{
		Title:       fmt.Sprintf("%s Progress Report", s.schoolName),
		Subtitle:    fmt.Sprintf("Grade %d - Section %s", gradeLevel, section),
		GeneratedAt: date,
		Summary: []export.SummaryStat{
			{Label: "Students", Value: strconv.Itoa(agg.StudentCount)},
			{Label: "Text Extract", Value: formatInt(agg.AvgTextExtract)},
			{Label: "Two Truths", Value: formatInt(agg.AvgTwoTruths)},
			{Label: "Statement Scrutinize", Value: formatInt(agg.AvgStatementScrutinize)},
			{Label: "Avg Story Progress", Value: formatInt(agg.AvgStoryProgress)},
			{Label: "Avg Experience", Value: formatInt(agg.AvgExperiencePoints)},
		},
		Table:  dataset,
		Footer: s.schoolName + " Reading Adventure",
	})
	if err != nil {
		return nil, appErrors.ErrInternal.Wrap(err)
	}
	return &ExportResult{Filename: base + ".pdf", ContentType: "application/pdf", Body: body}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatInt(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
