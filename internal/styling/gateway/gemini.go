// internal/styling/gateway/gemini.go
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider calls the Gemini API through the genai SDK.
type GeminiProvider struct {
	models      contentGenerator
	model       string
	temperature float32
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, temperature float32) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiProvider{models: client.Models, model: model, temperature: temperature}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	return p.generate(ctx, contents)
}

func (p *GeminiProvider) AnalyzeImage(ctx context.Context, image Image, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image.Data, image.MIMEType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	return p.generate(ctx, contents)
}

func (p *GeminiProvider) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	temperature := p.temperature
	resp, err := p.models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		return "", classifyGeminiError(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reason := resp.PromptFeedback.BlockReasonMessage
		if reason == "" {
			reason = fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("gemini blocked the prompt: %s", reason)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
}

// classifyGeminiError tags rate limits and unavailability as overload so the
// gateway retries them.
func classifyGeminiError(err error) error {
	overloaded := false
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		overloaded = apiErr.Code == 429 || apiErr.Code == 503
	} else {
		msg := strings.ToUpper(err.Error())
		overloaded = strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "UNAVAILABLE") ||
			strings.Contains(msg, "ERROR 429") || strings.Contains(msg, "ERROR 503")
	}
	if overloaded {
		return fmt.Errorf("gemini overloaded: %w", err)
	}
	return fmt.Errorf("gemini request failed: %w", err)
}
