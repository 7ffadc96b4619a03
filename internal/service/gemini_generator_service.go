package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/config"
	"google.golang.org/api/option"
)

// GeneratedMaterial is the structured output of the material generator.
type GeneratedMaterial struct {
	Title    string          `json:"title"`
	Document string          `json:"document"` // full markdown document
	Content  json.RawMessage `json:"content"`  // structured sections
}

// MaterialGenerator produces teaching documents from generation parameters.
type MaterialGenerator interface {
	Generate(ctx context.Context, kind, topic string, params interface{}) (*GeneratedMaterial, error)
}

type geminiGenerator struct {
	client *genai.GenerativeModel
}

func NewGeminiGenerator(cfg *config.Config) (MaterialGenerator, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Material generation will be unavailable.")
		return &geminiGenerator{client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiGenerator{client: client.GenerativeModel("gemini-1.5-flash")}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, kind, topic string, params interface{}) (*GeneratedMaterial, error) {
	if g.client == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	paramJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation parameters: %w", err)
	}

	prompt := fmt.Sprintf(`You are an assistant that writes teaching materials for Indonesian teachers.
Produce a %s about the topic %q using these parameters:
%s

Respond with ONLY a JSON object in this exact shape:
{
  "title": "<document title>",
  "document": "<the full material as markdown>",
  "content": {"sections": [{"heading": "<heading>", "body": "<text>"}, ...]}
}
`, kind, topic, paramJSON)

	resp, err := g.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("Gemini API error during material generation")
		return nil, err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no content")
	}

	fullText := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}

	var material GeneratedMaterial
	if err := json.Unmarshal([]byte(stripJSONFence(fullText)), &material); err != nil {
		log.Warn().Err(err).Str("raw", fullText).Msg("Failed to parse generated material JSON")
		return nil, fmt.Errorf("could not parse generated material: %w", err)
	}
	if material.Title == "" {
		material.Title = topic
	}
	return &material, nil
}
