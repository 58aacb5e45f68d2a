package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stellar-edu/stellar-admin-api/internal/models"
	"github.com/stellar-edu/stellar-admin-api/internal/upstream"
	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
)

const submissionGenre = "Test"

// Generator produces one model output for the accumulated conversation.
type Generator interface {
	Generate(ctx context.Context, mode models.GameMode, history []models.ChatMessage) (string, error)
}

// QuestionStore submits approved questions to the platform backend.
type QuestionStore interface {
	CreateQuestion(ctx context.Context, submission upstream.QuestionSubmission) error
}

// GenerationObserver records per-attempt outcomes.
type GenerationObserver interface {
	ObserveGeneration(outcome string)
}

// QuestionService drives the question generation loop and holds the
// pending review pool.
type QuestionService struct {
	generator Generator
	store     QuestionStore
	metrics   GenerationObserver
	logger    *zap.Logger

	maxQuestions     int
	safetyMultiplier int

	mu      sync.Mutex
	pending map[string]models.CandidateQuestion
	order   []string
}

// QuestionServiceParams configures NewQuestionService.
type QuestionServiceParams struct {
	Generator        Generator
	Store            QuestionStore
	Metrics          GenerationObserver
	Logger           *zap.Logger
	MaxQuestions     int
	SafetyMultiplier int
}

// NewQuestionService builds a QuestionService.
func NewQuestionService(params QuestionServiceParams) *QuestionService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxQuestions := params.MaxQuestions
	if maxQuestions <= 0 {
		maxQuestions = 25
	}
	multiplier := params.SafetyMultiplier
	if multiplier <= 0 {
		multiplier = 3
	}
	return &QuestionService{
		generator:        params.Generator,
		store:            params.Store,
		metrics:          params.Metrics,
		logger:           logger,
		maxQuestions:     maxQuestions,
		safetyMultiplier: multiplier,
		pending:          make(map[string]models.CandidateQuestion),
	}
}

func (s *QuestionService) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveGeneration(outcome)
	}
}

// Generate runs the generation loop for one game mode. It keeps asking
// the model for single questions until target candidates pass format
// validation or the attempt cap (target times the safety multiplier) is
// reached. A transport failure mid-run aborts the loop but keeps the
// candidates accepted so far.
func (s *QuestionService) Generate(ctx context.Context, mode models.GameMode, textPrompt string, target int) ([]models.CandidateQuestion, models.GenerationStats, error) {
	if !mode.Valid() {
		return nil, models.GenerationStats{}, appErrors.Clone(appErrors.ErrValidation, "unknown game mode")
	}
	if textPrompt == "" {
		return nil, models.GenerationStats{}, appErrors.Clone(appErrors.ErrValidation, "text prompt is required")
	}
	if target < 1 {
		target = 1
	}
	if target > s.maxQuestions {
		target = s.maxQuestions
	}

	history := []models.ChatMessage{{
		Role: "user",
		Content: fmt.Sprintf("Generate exactly ONE question in strict format.\n"+
			"The content must be based on the following input:\n\n%s", textPrompt),
	}}

	stats := models.GenerationStats{Requested: target}
	var accepted []models.CandidateQuestion

	for len(accepted) < target && stats.Attempts < target*s.safetyMultiplier {
		stats.Attempts++

		output, err := s.generator.Generate(ctx, mode, history)
		if err != nil {
			s.logger.Warn("generation aborted",
				zap.String("mode", string(mode)),
				zap.Int("accepted", len(accepted)),
				zap.Int("attempts", stats.Attempts),
				zap.Error(err),
			)
			s.observe("failed")
			stats.Aborted = true
			break
		}
		if output == "" {
			s.observe("empty")
			break
		}

		history = append(history,
			models.ChatMessage{Role: "assistant", Content: output},
			models.ChatMessage{Role: "user", Content: "Another"},
		)

		if !ValidFormat(mode, output) {
			stats.Rejected++
			s.observe("rejected")
			continue
		}

		candidate := ParseCandidate(mode, output)
		candidate.ID = uuid.NewString()
		accepted = append(accepted, candidate)
		s.observe("accepted")
	}

	stats.Accepted = len(accepted)

	s.mu.Lock()
	for _, candidate := range accepted {
		s.pending[candidate.ID] = candidate
		s.order = append(s.order, candidate.ID)
	}
	s.mu.Unlock()

	return accepted, stats, nil
}

// Pending returns the candidates awaiting review, in acceptance order.
func (s *QuestionService) Pending() []models.CandidateQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CandidateQuestion, 0, len(s.order))
	for _, id := range s.order {
		if candidate, ok := s.pending[id]; ok {
			out = append(out, candidate)
		}
	}
	return out
}

// Submit stores the approved candidates in the platform backend, one at
// a time in the given order, and removes each from the pending pool
// once stored. The first store failure stops the run; already-submitted
// candidates stay removed, the failed one and the rest stay pending.
func (s *QuestionService) Submit(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no question ids given")
	}

	s.mu.Lock()
	candidates := make([]models.CandidateQuestion, 0, len(ids))
	for _, id := range ids {
		candidate, ok := s.pending[id]
		if !ok {
			s.mu.Unlock()
			return 0, appErrors.Clone(appErrors.ErrNotFound, "unknown question id: "+id)
		}
		candidates = append(candidates, candidate)
	}
	s.mu.Unlock()

	submitted := 0
	for _, candidate := range candidates {
		err := s.store.CreateQuestion(ctx, upstream.QuestionSubmission{
			GameID:     candidate.GameID,
			TextPrompt: candidate.Passage,
			Question:   candidate.Challenge,
			Answer:     candidate.Answer,
			Genre:      submissionGenre,
			GameMode:   string(candidate.GameMode),
		})
		if err != nil {
			s.logger.Warn("question submit failed",
				zap.String("questionID", candidate.ID),
				zap.Int("submitted", submitted),
				zap.Error(err),
			)
			return submitted, err
		}
		s.remove(candidate.ID)
		submitted++
	}

	return submitted, nil
}

// Discard removes candidates from the pending pool without storing
// them. Unknown ids are ignored. An empty id list clears the pool.
func (s *QuestionService) Discard(ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) == 0 {
		removed := len(s.pending)
		s.pending = make(map[string]models.CandidateQuestion)
		s.order = nil
		return removed
	}

	removed := 0
	for _, id := range ids {
		if _, ok := s.pending[id]; ok {
			delete(s.pending, id)
			removed++
		}
	}
	s.compactOrder()
	return removed
}

func (s *QuestionService) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	s.compactOrder()
}

func (s *QuestionService) compactOrder() {
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.pending[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
}
