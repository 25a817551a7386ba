package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/panmaat/backend/internal/domain/generation"
)

// Image generation wire structures

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []imageDatum `json:"data"`
}

type imageDatum struct {
	B64JSON string `json:"b64_json"`
}

// GenerateImage asks the image model for a square photo of the dish
// and returns the raw base64 payload.
func (c *Client) GenerateImage(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: empty title", generation.ErrParseFailed)
	}

	reqBody := imageRequest{
		Model:  c.cfg.ImageModel,
		Prompt: fmt.Sprintf(imagePromptTemplate, title),
		N:      1,
		Size:   "1024x1024",
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/images/generations", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.imageClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", generation.ErrGenerationUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("image generation failed",
			zap.Int("status", resp.StatusCode),
			zap.String("title", title),
		)
		return "", fmt.Errorf("%w: status %d", generation.ErrGenerationUnavailable, resp.StatusCode)
	}

	var imgResp imageResponse
	if err := json.Unmarshal(body, &imgResp); err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrParseFailed, err)
	}

	if len(imgResp.Data) == 0 || imgResp.Data[0].B64JSON == "" {
		return "", generation.ErrEmptyResponse
	}

	c.logger.Info("dish photo generated", zap.String("title", title))

	return imgResp.Data[0].B64JSON, nil
}
