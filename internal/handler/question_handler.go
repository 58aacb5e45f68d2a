package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stellar-edu/stellar-admin-api/internal/dto"
	"github.com/stellar-edu/stellar-admin-api/internal/models"
	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
	"github.com/stellar-edu/stellar-admin-api/pkg/response"
)

// QuestionManager drives question generation and review.
type QuestionManager interface {
	Generate(ctx context.Context, mode models.GameMode, textPrompt string, target int) ([]models.CandidateQuestion, models.GenerationStats, error)
	Pending() []models.CandidateQuestion
	Submit(ctx context.Context, ids []string) (int, error)
	Discard(ids []string) int
}

// QuestionHandler exposes the question generation endpoints.
type QuestionHandler struct {
	questions QuestionManager
	logger    *zap.Logger
}

// NewQuestionHandler builds a QuestionHandler.
func NewQuestionHandler(questions QuestionManager, logger *zap.Logger) *QuestionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionHandler{questions: questions, logger: logger}
}

// RegisterRoutes attaches the question endpoints to router.
func (h *QuestionHandler) RegisterRoutes(router gin.IRouter) {
	questions := router.Group("/questions")
	{
		questions.POST("/generate", h.Generate)
		questions.GET("/pending", h.Pending)
		questions.POST("/submit", h.Submit)
		questions.POST("/discard", h.Discard)
	}
}

// Generate runs the generation loop and returns the accepted candidates.
func (h *QuestionHandler) Generate(c *gin.Context) {
	var req dto.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "gameMode and textPrompt are required"))
		return
	}

	candidates, stats, err := h.questions.Generate(c.Request.Context(), req.GameMode, req.TextPrompt, req.Count)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.GenerateQuestionsResponse{Candidates: candidates, Stats: stats})
}

// Pending lists the candidates awaiting review.
func (h *QuestionHandler) Pending(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.questions.Pending())
}

// Submit stores approved candidates in the platform backend.
func (h *QuestionHandler) Submit(c *gin.Context) {
	var req dto.QuestionIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "ids are required"))
		return
	}

	submitted, err := h.questions.Submit(c.Request.Context(), req.IDs)
	if err != nil {
		if submitted > 0 {
			h.logger.Warn("partial question submission",
				zap.Int("submitted", submitted),
				zap.Int("requested", len(req.IDs)),
			)
		}
		response.Error(c, err)
		return
	}

	if claims, ok := currentUser(c); ok {
		h.logger.Info("questions submitted",
			zap.String("userID", claims.UserID),
			zap.Int("count", submitted),
		)
	}
	response.JSON(c, http.StatusOK, dto.SubmitQuestionsResponse{Submitted: submitted})
}

// Discard drops pending candidates without storing them. An empty id
// list clears the whole pool.
func (h *QuestionHandler) Discard(c *gin.Context) {
	var req dto.QuestionIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}

	discarded := h.questions.Discard(req.IDs)
	response.JSON(c, http.StatusOK, dto.DiscardQuestionsResponse{Discarded: discarded})
}
