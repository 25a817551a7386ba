// Package openai provides the OpenAI-compatible chat and image clients
// behind the recipe and image generator ports.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/panmaat/backend/internal/domain/generation"
)

// Config holds the provider settings for both clients.
type Config struct {
	BaseURL            string
	APIKey             string
	ChatModel          string
	ImageModel         string
	MaxTokens          int
	Timeout            time.Duration
	ImageTimeout       time.Duration
	FirstTemperature   float64
	VariantTemperature float64
}

// Client implements the RecipeGenerator and ImageGenerator ports
// against an OpenAI-compatible API.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	imageClient *http.Client
	logger      *zap.Logger
}

// NewClient creates a new provider client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.ImageTimeout <= 0 {
		cfg.ImageTimeout = 2 * time.Minute
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.FirstTemperature <= 0 {
		cfg.FirstTemperature = 0.4
	}
	if cfg.VariantTemperature <= 0 {
		cfg.VariantTemperature = 0.8
	}

	return &Client{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		imageClient: &http.Client{Timeout: cfg.ImageTimeout},
		logger:      logger,
	}
}

// Chat completion wire structures

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// recipePayload is the loosely-typed shape the model replies with.
// cooking_time and servings arrive as numbers or strings depending on
// the model's mood, so they are coerced rather than decoded strictly.
type recipePayload struct {
	Title       string          `json:"title"`
	Ingredients []string        `json:"ingredients"`
	Steps       []string        `json:"steps"`
	CookingTime json.RawMessage `json:"cooking_time"`
	Servings    json.RawMessage `json:"servings"`
	Category    string          `json:"category"`
}

// GenerateRecipe asks the chat model for one recipe candidate.
// It makes exactly one upstream call and never retries.
func (c *Client) GenerateRecipe(ctx context.Context, req generation.Request) (generation.Candidate, error) {
	temperature := c.cfg.FirstTemperature
	if req.Variation {
		temperature = c.cfg.VariantTemperature
	}

	content, err := c.callChat(ctx, systemPrompt, buildUserPrompt(req), temperature)
	if err != nil {
		return generation.Candidate{}, err
	}

	payload, err := parseRecipePayload(content)
	if err != nil {
		c.logger.Warn("unparseable completion",
			zap.Error(err),
			zap.Int("content_length", len(content)),
		)
		return generation.Candidate{}, fmt.Errorf("%w: %v", generation.ErrParseFailed, err)
	}

	raw := generation.Candidate{
		Title:       payload.Title,
		Ingredients: payload.Ingredients,
		Steps:       payload.Steps,
		CookingTime: coerceInt(payload.CookingTime, 0),
		Servings:    coerceInt(payload.Servings, 0),
	}

	candidate, err := raw.Normalize(req)
	if err != nil {
		return generation.Candidate{}, fmt.Errorf("%w: %v", generation.ErrParseFailed, err)
	}

	c.logger.Info("recipe candidate generated",
		zap.String("title", candidate.Title),
		zap.Bool("variation", req.Variation),
	)

	return candidate, nil
}

// callChat performs the chat completion request
func (c *Client) callChat(ctx context.Context, system, user string, temperature float64) (string, error) {
	reqBody := chatCompletionRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", generation.ErrGenerationUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("chat completion failed",
			zap.Int("status", resp.StatusCode),
		)
		return "", fmt.Errorf("%w: status %d", generation.ErrGenerationUnavailable, resp.StatusCode)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrParseFailed, err)
	}

	if len(chatResp.Choices) == 0 || strings.TrimSpace(chatResp.Choices[0].Message.Content) == "" {
		return "", generation.ErrEmptyResponse
	}

	c.logger.Debug("chat completion succeeded",
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
	)

	return chatResp.Choices[0].Message.Content, nil
}

// parseRecipePayload extracts and decodes the JSON object from the
// completion. Models occasionally wrap the object in prose or code
// fences, so everything outside the outermost braces is discarded.
func parseRecipePayload(content string) (recipePayload, error) {
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return recipePayload{}, fmt.Errorf("no JSON object in completion")
	}

	var payload recipePayload
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return recipePayload{}, fmt.Errorf("decoding recipe payload: %w", err)
	}

	return payload, nil
}

// coerceInt interprets a raw JSON value as a positive integer. Numbers
// and numeric strings pass through, anything else yields the fallback.
func coerceInt(raw json.RawMessage, fallback int) int {
	if len(raw) == 0 || string(raw) == "null" {
		return fallback
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return v
		}
	}

	return fallback
}
