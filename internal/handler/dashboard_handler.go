package handler

import (
	"context"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stellar-edu/stellar-admin-api/internal/dto"
	"github.com/stellar-edu/stellar-admin-api/internal/models"
	"github.com/stellar-edu/stellar-admin-api/internal/service"
	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
	"github.com/stellar-edu/stellar-admin-api/pkg/response"
)

// ProgressReader serves progress aggregation views.
type ProgressReader interface {
	GradeRollups(ctx context.Context) ([]models.GradeRollup, service.FetchMeta, error)
	SectionsForGrade(ctx context.Context, gradeLevel int) ([]models.SectionStat, service.FetchMeta, error)
	SectionIndex(ctx context.Context) ([]service.GradeSections, service.FetchMeta, error)
	Students(ctx context.Context, gradeLevel int, section string) ([]models.StudentRecord, error)
	StudentDetail(ctx context.Context, userID string) (*models.StudentDetail, error)
}

// OverviewReader serves the landing page and game mastery views.
type OverviewReader interface {
	Overview(ctx context.Context) (*models.OverviewSnapshot, service.FetchMeta, error)
	GameMastery(ctx context.Context, gradeLevel int) (*models.GameMasterySet, service.FetchMeta, error)
}

// DashboardHandler exposes the admin dashboard read endpoints.
type DashboardHandler struct {
	progress ProgressReader
	overview OverviewReader
}

// NewDashboardHandler builds a DashboardHandler.
func NewDashboardHandler(progress ProgressReader, overview OverviewReader) *DashboardHandler {
	return &DashboardHandler{progress: progress, overview: overview}
}

// RegisterRoutes attaches the dashboard endpoints to router.
func (h *DashboardHandler) RegisterRoutes(router gin.IRouter) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/progress", h.GradeProgress)
		dashboard.GET("/progress/sections", h.SectionProgress)
		dashboard.GET("/progress/index", h.SectionIndex)
		dashboard.GET("/overview", h.Overview)
		dashboard.GET("/gamemastery", h.GameMastery)
	}
	router.GET("/class/students", h.Students)
	router.GET("/students/:id", h.StudentDetail)
}

// GradeProgress returns the per-grade rollups for the landing chart.
// Aggregation keeps the backend's order; the response is sorted by
// grade level ascending for display.
func (h *DashboardHandler) GradeProgress(c *gin.Context) {
	rollups, meta, err := h.progress.GradeRollups(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	sort.Slice(rollups, func(i, j int) bool { return rollups[i].GradeLevel < rollups[j].GradeLevel })
	response.JSON(c, http.StatusOK, rollups, fetchMeta(meta))
}

// SectionProgress returns the section rows of one grade level.
func (h *DashboardHandler) SectionProgress(c *gin.Context) {
	gradeLevel, err := strconv.Atoi(c.Query("gradeLevel"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "gradeLevel must be an integer"))
		return
	}

	sections, meta, err := h.progress.SectionsForGrade(c.Request.Context(), gradeLevel)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, fetchMeta(meta))
}

// SectionIndex returns each grade's section labels for navigation.
func (h *DashboardHandler) SectionIndex(c *gin.Context) {
	index, meta, err := h.progress.SectionIndex(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, index, fetchMeta(meta))
}

// Overview returns the school-wide snapshot.
func (h *DashboardHandler) Overview(c *gin.Context) {
	snapshot, meta, err := h.overview.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, fetchMeta(meta))
}

// GameMastery returns per-game averages and leaderboards, optionally
// narrowed to one grade level.
func (h *DashboardHandler) GameMastery(c *gin.Context) {
	gradeLevel := 0
	if raw := c.Query("gradeLevel"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "gradeLevel must be an integer"))
			return
		}
		gradeLevel = parsed
	}

	mastery, meta, err := h.overview.GameMastery(c.Request.Context(), gradeLevel)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mastery, fetchMeta(meta))
}

// Students returns the roster of one class section together with the
// same aggregate the section report uses.
func (h *DashboardHandler) Students(c *gin.Context) {
	gradeLevel, err := strconv.Atoi(c.Query("gradeLevel"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "gradeLevel must be an integer"))
		return
	}

	students, err := h.progress.Students(c.Request.Context(), gradeLevel, c.Query("section"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ClassRosterResponse{
		Students: students,
		Summary:  service.SectionAverages(students),
	})
}

// StudentDetail returns the drill-down bundle for one student.
func (h *DashboardHandler) StudentDetail(c *gin.Context) {
	detail, err := h.progress.StudentDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}
