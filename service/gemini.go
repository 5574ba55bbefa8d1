package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// GeminiTextGenerator implements TextGenerator with the Gemini API
type GeminiTextGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiTextGenerator creates a generator for the named Gemini model
func NewGeminiTextGenerator(client *genai.Client, model string) *GeminiTextGenerator {
	return &GeminiTextGenerator{client: client, model: model}
}

// GenerateText sends prompt to Gemini and returns the text of the first
// candidate. An empty string means the model produced no text.
func (g *GeminiTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("gemini client not set")
	}

	resp, err := g.client.GenerativeModel(g.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", nil
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("gemini blocked prompt: %v", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String(), nil
}
