package dto

import "github.com/stellar-edu/stellar-admin-api/internal/models"

// ClassRosterResponse bundles a section roster with the same aggregate
// the report exporters use, so displayed and exported numbers never
// diverge.
type ClassRosterResponse struct {
	Students []models.StudentRecord `json:"students"`
	Summary  models.ReportAggregate `json:"summary"`
}
