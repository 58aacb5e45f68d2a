package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/stellar-edu/stellar-admin-api/internal/models"
	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
)

const defaultModel = "gpt-4o-mini"

var systemPrompts = map[models.GameMode]string{
	models.ModeExtract: "You write reading comprehension questions for the Text Extract game. " +
		"Always answer with exactly one line in the format: passage;question;answer. " +
		"Use exactly two semicolons and no newlines.",
	models.ModeTruth: "You write statements for the Two Truths One Lie game. " +
		"Always answer with exactly one line in the format: passage;statement1|statement2|statement3;lieIndex " +
		"where lieIndex is 0, 1 or 2. Use exactly two semicolons and no newlines.",
	models.ModeScrutinize: "You write items for the Statement Scrutinize game. " +
		"Always answer with exactly one line in the format: passage;statement1|statement2|statement3;falseIndex|evidence " +
		"where falseIndex is 0, 1 or 2. Use exactly two semicolons and no newlines.",
}

// Client generates question candidates through an OpenAI-compatible
// chat completion endpoint.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// Params configures New.
type Params struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float64
	Logger      *zap.Logger
}

// New creates a generation client. BaseURL may point at any
// OpenAI-compatible server; empty means the public API.
func New(params Params) *Client {
	cfg := openai.DefaultConfig(params.APIKey)
	if params.BaseURL != "" {
		cfg.BaseURL = params.BaseURL
	}
	if params.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: params.Timeout}
	}

	model := params.Model
	if model == "" {
		model = defaultModel
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: float32(params.Temperature),
		logger:      logger,
	}
}

// Generate runs one chat completion over the accumulated conversation
// and returns the trimmed assistant output.
func (c *Client) Generate(ctx context.Context, mode models.GameMode, history []models.ChatMessage) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompts[mode],
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		c.logger.Warn("chat completion failed", zap.String("mode", string(mode)), zap.Error(err))
		return "", appErrors.ErrModel.Wrap(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
