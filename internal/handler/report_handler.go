package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stellar-edu/stellar-admin-api/internal/models"
	"github.com/stellar-edu/stellar-admin-api/internal/service"
	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
	"github.com/stellar-edu/stellar-admin-api/pkg/response"
)

// ReportRenderer renders report downloads.
type ReportRenderer interface {
	OverallReport(ctx context.Context, format models.ReportFormat) (*service.ExportResult, error)
	SectionReport(ctx context.Context, gradeLevel int, section string, format models.ReportFormat) (*service.ExportResult, error)
}

// ReportHandler exposes the report download endpoints.
type ReportHandler struct {
	reports ReportRenderer
}

// NewReportHandler builds a ReportHandler.
func NewReportHandler(reports ReportRenderer) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes attaches the report endpoints to router.
func (h *ReportHandler) RegisterRoutes(router gin.IRouter) {
	reports := router.Group("/reports")
	{
		reports.GET("/overall", h.Overall)
		reports.GET("/section", h.Section)
	}
}

// Overall streams the school-wide report in the requested format.
func (h *ReportHandler) Overall(c *gin.Context) {
	result, err := h.reports.OverallReport(c.Request.Context(), models.ReportFormat(c.DefaultQuery("format", "pdf")))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDownload(c, result)
}

// Section streams one class section's report in the requested format.
func (h *ReportHandler) Section(c *gin.Context) {
	gradeLevel, err := strconv.Atoi(c.Query("gradeLevel"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "gradeLevel must be an integer"))
		return
	}

	result, err := h.reports.SectionReport(
		c.Request.Context(),
		gradeLevel,
		c.Query("section"),
		models.ReportFormat(c.DefaultQuery("format", "pdf")),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDownload(c, result)
}

func writeDownload(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Body)
}
