package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"focus-starter/internal/models"
)

const quotePrompt = `Write one short motivational quote about focus or deep work.
Return ONLY a valid JSON object: {"q": "<quote>", "a": "<author or Unknown>"}`

// GeminiQuoteSource generates a quote when the quote provider is down.
type GeminiQuoteSource struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiQuoteSource(ctx context.Context, apiKey string) (*GeminiQuoteSource, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.9)

	return &GeminiQuoteSource{client: client, model: model}, nil
}

func (g *GeminiQuoteSource) Close() {
	g.client.Close()
}

func (g *GeminiQuoteSource) GenerateQuote(ctx context.Context) (*models.Quote, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(quotePrompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}
	return parseQuoteJSON(extractText(resp))
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// parseQuoteJSON accepts the model output with or without a ```json fence.
func parseQuoteJSON(raw string) (*models.Quote, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var q models.Quote
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, fmt.Errorf("parse generated quote: %w", err)
	}
	if q.Text == "" {
		return nil, fmt.Errorf("generated quote is empty")
	}
	if q.Author == "" {
		q.Author = "Unknown"
	}
	return &q, nil
}
