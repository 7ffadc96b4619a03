package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/config"
	"github.com/sahabat-guru/backend/internal/model"
	"google.golang.org/api/option"
)

// EssayEvaluation is the structured result of AI essay scoring.
type EssayEvaluation struct {
	Score           float64            `json:"score"`
	Overall         string             `json:"overall"`
	Strengths       []string           `json:"strengths,omitempty"`
	Improvements    []string           `json:"improvements,omitempty"`
	RubricBreakdown map[string]float64 `json:"rubric_breakdown,omitempty"`
}

// EssayScorer delegates essay grading to an external AI model.
type EssayScorer interface {
	ScoreEssay(ctx context.Context, question *model.Question, answer *model.Answer) (*EssayEvaluation, error)
}

type geminiScorer struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiScorer(cfg *config.Config) (EssayScorer, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Essay scoring will fall back to manual review.")
		return &geminiScorer{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &geminiScorer{client: model, cfg: cfg}, nil
}

func fetchImageData(imageURL string) ([]byte, string, error) {
	if imageURL == "" {
		return nil, "", fmt.Errorf("image URL is empty")
	}
	resp, err := http.Get(imageURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image from URL %s: %w", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch image (status %d) from URL %s", resp.StatusCode, imageURL)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data from URL %s: %w", imageURL, err)
	}

	contentType := resp.Header.Get("Content-Type")
	var mimeType string
	if contentType != "" {
		parsedMime, _, parseErr := mime.ParseMediaType(contentType)
		if parseErr == nil && strings.HasPrefix(parsedMime, "image/") {
			mimeType = parsedMime
		}
	}
	if mimeType == "" {
		ext := filepath.Ext(imageURL)
		mimeType = mime.TypeByExtension(ext)
		if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
			return imageData, "", fmt.Errorf("unsupported or undeterminable image MIME type for %s", imageURL)
		}
	}
	return imageData, mimeType, nil
}

// stripJSONFence removes a markdown code fence the model sometimes wraps
// around its JSON output.
func stripJSONFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// ScoreEssay grades one essay answer against its rubric and answer key.
// Image submissions are attached as parts so the model performs OCR first.
func (s *geminiScorer) ScoreEssay(ctx context.Context, question *model.Question, answer *model.Answer) (*EssayEvaluation, error) {
	if s.client == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	var parts []genai.Part
	var prompt strings.Builder

	prompt.WriteString("You are an experienced teacher grading a student's essay answer.\n\n")
	prompt.WriteString("Question:\n---\n")
	prompt.WriteString(question.Prompt)
	prompt.WriteString("\n---\n\n")

	if question.AnswerKey != "" {
		prompt.WriteString("Reference answer (answer key):\n---\n")
		prompt.WriteString(question.AnswerKey)
		prompt.WriteString("\n---\n\n")
	}
	if len(question.Rubric) > 0 {
		prompt.WriteString("Scoring rubric (criteria and weights):\n---\n")
		prompt.Write(question.Rubric)
		prompt.WriteString("\n---\n\n")
	}

	if answer.FileURL != nil && *answer.FileURL != "" {
		imageData, mimeType, err := fetchImageData(*answer.FileURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch answer image: %w", err)
		}
		parts = append(parts, genai.ImageData(mimeType, imageData))
		prompt.WriteString("The student's answer is in the attached image. Read it carefully (it may be handwritten) before grading.\n\n")
	} else {
		prompt.WriteString("Student's answer:\n---\n")
		prompt.WriteString(answer.Content)
		prompt.WriteString("\n---\n\n")
	}

	prompt.WriteString(`Grade the answer from 0 to 100 against the rubric. Respond with ONLY a JSON object in this exact shape:
{
  "score": <number 0-100>,
  "overall": "<one paragraph of overall feedback>",
  "strengths": ["<strength>", ...],
  "improvements": ["<concrete improvement>", ...],
  "rubric_breakdown": {"<criterion>": <number 0-100>, ...}
}
`)

	parts = append(parts, genai.Text(prompt.String()))

	resp, err := s.client.GenerateContent(ctx, parts...)
	if err != nil {
		log.Error().Err(err).Uint("question_id", question.ID).Msg("Gemini API error during essay scoring")
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
	if fullText == "" {
		return nil, fmt.Errorf("gemini returned no text content")
	}

	var eval EssayEvaluation
	if err := json.Unmarshal([]byte(stripJSONFence(fullText)), &eval); err != nil {
		log.Warn().Err(err).Str("raw", fullText).Msg("Failed to parse essay evaluation JSON")
		return nil, fmt.Errorf("could not parse AI evaluation: %w", err)
	}

	if eval.Score > 100 {
		eval.Score = 100
	}
	if eval.Score < 0 {
		eval.Score = 0
	}
	return &eval, nil
}
