package models

// ReportFormat selects the export encoding of a report download.
type ReportFormat string

const (
	FormatCSV ReportFormat = "csv"
	FormatPDF ReportFormat = "pdf"
)

// Valid reports whether f names a supported export format.
func (f ReportFormat) Valid() bool {
	return f == FormatCSV || f == FormatPDF
}

// ReportAggregate holds the class-level averages of a section report.
// Game averages are taken over students that have at least one nonzero
// game score; story progress and experience are averaged over the whole
// roster.
type ReportAggregate struct {
	StudentCount           int     `json:"studentCount"`
	StudentCountWithScores int     `json:"studentCountWithScores"`
	AvgTextExtract         float64 `json:"avgTextExtract"`
	AvgTwoTruths           float64 `json:"avgTwoTruths"`
	AvgStatementScrutinize float64 `json:"avgStatementScrutinize"`
	AvgStoryProgress       float64 `json:"avgStoryProgress"`
	AvgExperiencePoints    float64 `json:"avgExperiencePoints"`
}
