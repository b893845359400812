// Package imagegen provides the image generation collaborator boundary.
//
// openai_provider.go implements the Provider interface on top of the OpenAI
// DALL-E API using the go-openai client. Images are requested as base64 so
// no separate download round-trip is needed.
package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"nanogen/core"
	"nanogen/logging"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIProvider implements Provider for OpenAI DALL-E image generation.
//
// Thread-Safety: OpenAIProvider is safe for concurrent use. The underlying
// client handles connection pooling.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *logging.Logger
}

// NewOpenAIProvider creates an OpenAI image generation provider.
//
// Parameters:
//   - apiKey: OpenAI API key (required)
//   - model: image model; empty uses core.DefaultOpenAIModel
//   - logger: structured logger; nil discards
//
// Returns a ConfigError if the API key is missing.
func NewOpenAIProvider(apiKey, model string, logger *logging.Logger) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, core.ErrMissingAPIKey(core.ProviderOpenAI, "OPENAI_API_KEY")
	}
	if model == "" {
		model = core.DefaultOpenAIModel
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger.Named("openai"),
	}, nil
}

// Generate creates one image from the request prompt and writes it to
// req.OutputPath.
func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	modelID := p.model
	if req.Model != "" {
		modelID = req.Model
	}
	ratio := req.ratio()

	start := time.Now()

	imageReq := openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          modelID,
		Size:           dalleSizeForRatio(ratio),
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		N:              1,
	}
	if modelID == core.DefaultOpenAIModel {
		imageReq.Style = openai.CreateImageStyleVivid
	}

	resp, err := p.client.CreateImage(ctx, imageReq)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}
	if len(resp.Data) == 0 {
		return nil, core.NewGenerationError("no image in response", nil)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, core.NewGenerationError("decode base64 image payload", err)
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

// dalleSizeForRatio maps an aspect ratio to the nearest size DALL-E 3
// supports. DALL-E has no 2:3 or 3:2 output; portrait-ish ratios map to the
// tall size and landscape-ish ratios to the wide size.
func dalleSizeForRatio(ratio core.AspectRatio) string {
	switch ratio {
	case core.AspectSquare:
		return openai.CreateImageSize1024x1024
	case core.AspectLandscape, core.AspectWide:
		return openai.CreateImageSize1792x1024
	case core.AspectPortrait, core.AspectTall:
		return openai.CreateImageSize1024x1792
	default:
		return openai.CreateImageSize1024x1024
	}
}

// classifyOpenAIError maps a go-openai error into the core taxonomy using
// the HTTP status carried by openai.APIError.
func classifyOpenAIError(err error) *core.GenerationError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return core.NewRateLimitedError("openai rate limit exceeded", err)
		case apiErr.HTTPStatusCode >= 500:
			return core.NewServiceOverloadedError("openai service unavailable", err)
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.HTTPStatusCode == http.StatusTooManyRequests:
			return core.NewRateLimitedError("openai rate limit exceeded", err)
		case reqErr.HTTPStatusCode >= 500:
			return core.NewServiceOverloadedError("openai service unavailable", err)
		}
	}
	return core.NewGenerationError("openai generation failed", err)
}
