package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stellar-edu/stellar-admin-api/internal/models"
)

// FetchProgress returns the aggregated per-section progress rows for the
// whole school.
func (c *Client) FetchProgress(ctx context.Context) ([]models.SectionStat, error) {
	var stats []models.SectionStat
	if err := c.do(ctx, http.MethodGet, "/progress/sections", nil, nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// FetchStudents returns the roster of one class section.
func (c *Client) FetchStudents(ctx context.Context, gradeLevel int, section string) ([]models.StudentRecord, error) {
	query := url.Values{}
	query.Set("gradeLevel", strconv.Itoa(gradeLevel))
	query.Set("section", section)

	var students []models.StudentRecord
	if err := c.do(ctx, http.MethodGet, "/class/students", query, nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// FetchStudentDetails returns the drill-down bundle for one student.
func (c *Client) FetchStudentDetails(ctx context.Context, userID string) (*models.StudentDetail, error) {
	var detail models.StudentDetail
	if err := c.do(ctx, http.MethodGet, "/students/"+url.PathEscape(userID), nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FetchOverview returns the school-wide landing page snapshot.
func (c *Client) FetchOverview(ctx context.Context) (*models.OverviewSnapshot, error) {
	var snapshot models.OverviewSnapshot
	if err := c.do(ctx, http.MethodGet, "/overview", nil, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FetchChallengeAttempts returns school-wide attempt counts per game.
func (c *Client) FetchChallengeAttempts(ctx context.Context) (*models.ChallengeAttempts, error) {
	var attempts models.ChallengeAttempts
	if err := c.do(ctx, http.MethodGet, "/challenges/attempts", nil, nil, &attempts); err != nil {
		return nil, err
	}
	return &attempts, nil
}

// FetchGameMastery returns mastery summaries for all three games.
// gradeLevel 0 means the whole school.
func (c *Client) FetchGameMastery(ctx context.Context, gradeLevel int) (*models.GameMasterySet, error) {
	var query url.Values
	if gradeLevel > 0 {
		query = url.Values{}
		query.Set("gradeLevel", strconv.Itoa(gradeLevel))
	}

	var mastery models.GameMasterySet
	if err := c.do(ctx, http.MethodGet, "/games/mastery", query, nil, &mastery); err != nil {
		return nil, err
	}
	return &mastery, nil
}

// QuestionSubmission is the payload of a question create call. Field
// names follow the platform's question contract: the passage travels
// as textPrompt and the challenge as question.
type QuestionSubmission struct {
	GameID     string `json:"gameID"`
	TextPrompt string `json:"textPrompt"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Genre      string `json:"genre"`
	GameMode   string `json:"gameMode"`
}

// CreateQuestion stores one approved question in the platform backend.
func (c *Client) CreateQuestion(ctx context.Context, submission QuestionSubmission) error {
	return c.do(ctx, http.MethodPost, "/questions", nil, submission, nil)
}
