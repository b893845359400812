// Package imagegen provides the image generation collaborator boundary.
//
// gemini_provider.go implements the Provider interface on top of Google's
// Gemini image generation API using the official generative-ai-go SDK.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"nanogen/core"
	"nanogen/logging"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiProvider implements Provider for Gemini image generation models.
//
// Thread-Safety: GeminiProvider is safe for concurrent use. A fresh
// GenerativeModel handle is taken per call; the underlying client pools
// connections.
type GeminiProvider struct {
	client *genai.Client
	model  string
	logger *logging.Logger
}

// NewGeminiProvider creates a Gemini image generation provider.
//
// Parameters:
//   - ctx: used only for client construction
//   - apiKey: Google API key (required)
//   - model: model ID; empty uses core.DefaultGeminiModel
//   - logger: structured logger; nil discards
//
// Returns a ConfigError if the API key is missing.
func NewGeminiProvider(ctx context.Context, apiKey, model string, logger *logging.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, core.ErrMissingAPIKey(core.ProviderGemini, "GOOGLE_API_KEY")
	}
	if model == "" {
		model = core.DefaultGeminiModel
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("imagegen: create gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  model,
		logger: logger.Named("gemini"),
	}, nil
}

// Close releases the underlying API client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// Generate creates one image from the request prompt and writes it to
// req.OutputPath. The requested aspect ratio is passed to the model as a
// prompt directive, which is how the image-generation Gemini models accept
// shape hints.
func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	modelID := p.model
	if req.Model != "" {
		modelID = req.Model
	}
	ratio := req.ratio()

	start := time.Now()

	model := p.client.GenerativeModel(modelID)
	prompt := fmt.Sprintf("%s\n\nGenerate the image with a %s aspect ratio.", req.Prompt, ratio)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	data, err := extractImageData(resp)
	if err != nil {
		return nil, err
	}

	if err := writeImageFile(req.OutputPath, data); err != nil {
		return nil, core.NewGenerationError("save generated image", err)
	}

	width, height, err := probeImageDimensions(data)
	if err != nil {
		return nil, core.NewGenerationError("inspect generated image", err)
	}

	duration := time.Since(start)
	p.logger.Debug("image generated",
		zap.String("output", req.OutputPath),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Duration("duration", duration),
	)

	return &Result{
		Path:        req.OutputPath,
		Width:       width,
		Height:      height,
		Prompt:      req.Prompt,
		Model:       modelID,
		AspectRatio: ratio,
		Duration:    duration,
	}, nil
}

// extractImageData finds the first inline image part in the response.
func extractImageData(resp *genai.GenerateContentResponse) ([]byte, error) {
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
				return blob.Data, nil
			}
		}
	}
	return nil, core.NewGenerationError("no image in response", nil)
}

// classifyGeminiError maps a Gemini SDK error into the core taxonomy using
// the HTTP status carried by googleapi.Error. Errors without a recognizable
// transport signal are non-retryable.
func classifyGeminiError(err error) *core.GenerationError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return core.NewRateLimitedError("gemini quota exceeded", err)
		case apiErr.Code >= 500:
			return core.NewServiceOverloadedError("gemini service unavailable", err)
		}
	}
	return core.NewGenerationError("gemini generation failed", err)
}
