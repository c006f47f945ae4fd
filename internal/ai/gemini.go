package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements Generator using Google's Gemini models.
type GeminiProvider struct {
	client    *genai.Client
	jsonModel *genai.GenerativeModel
	textModel *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client. apiKey should be provided
// from environment variables; modelName selects the underlying model, e.g.
// "gemini-2.0-flash".
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Force JSON responses for structured extraction; low temperature keeps
	// the field values faithful to the input text.
	jsonModel := client.GenerativeModel(modelName)
	jsonModel.ResponseMIMEType = "application/json"
	jsonModel.SetTemperature(0.2)

	// Free-form model for response composition; warmer temperature for tone.
	textModel := client.GenerativeModel(modelName)
	textModel.SetTemperature(0.8)

	return &GeminiProvider{
		client:    client,
		jsonModel: jsonModel,
		textModel: textModel,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// GenerateJSON runs the prompt against the JSON-mode model.
func (p *GeminiProvider) GenerateJSON(ctx context.Context, prompt string) ([]byte, error) {
	text, err := generate(ctx, p.jsonModel, prompt)
	if err != nil {
		return nil, err
	}
	// Clean up potential markdown formatting (though json mode should handle this, safety first).
	return []byte(cleanJSONString(text)), nil
}

// GenerateText runs the prompt against the free-form model.
func (p *GeminiProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	return generate(ctx, p.textModel, prompt)
}

func generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	// Extract text from the response parts.
	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}
	return responseText.String(), nil
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
