package dto

import "github.com/stellar-edu/stellar-admin-api/internal/models"

// GenerateQuestionsRequest asks for a batch of generated candidates.
type GenerateQuestionsRequest struct {
	GameMode   models.GameMode `json:"gameMode" binding:"required,gamemode"`
	TextPrompt string          `json:"textPrompt" binding:"required"`
	Count      int             `json:"count"`
}

// GenerateQuestionsResponse returns the accepted candidates plus run stats.
type GenerateQuestionsResponse struct {
	Candidates []models.CandidateQuestion `json:"candidates"`
	Stats      models.GenerationStats     `json:"stats"`
}

// QuestionIDsRequest names pending candidates by id.
type QuestionIDsRequest struct {
	IDs []string `json:"ids"`
}

// SubmitQuestionsResponse reports how many candidates were stored.
type SubmitQuestionsResponse struct {
	Submitted int `json:"submitted"`
}

// DiscardQuestionsResponse reports how many candidates were dropped.
type DiscardQuestionsResponse struct {
	Discarded int `json:"discarded"`
}
