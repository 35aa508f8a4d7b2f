package sentiment

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Default model for the primary tier.
const defaultGeminiModel = "models/gemini-1.5-flash"

const labelPrompt = "Classify the sentiment of the following customer feedback. " +
	"Answer with exactly one word, POSITIVE or NEGATIVE, and nothing else.\n\nFeedback: %s"

// GeminiModel implements the primary tier against the Gemini API.
type GeminiModel struct {
	model *genai.GenerativeModel
}

// NewGeminiModel creates the model client. An empty API key is an
// initialization failure, which the two-tier classifier translates
// into a process-lifetime downgrade to the rule tier.
func NewGeminiModel(ctx context.Context, apiKey, modelName string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiModel{model: client.GenerativeModel(modelName)}, nil
}

// Label asks the model for a single-word sentiment label. The label
// is returned as produced, without vocabulary normalization.
func (g *GeminiModel) Label(ctx context.Context, text string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(labelPrompt, text)))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyModelReply
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	label := strings.TrimSpace(sb.String())
	if label == "" {
		return "", ErrEmptyModelReply
	}
	return label, nil
}

// GeminiFactory returns a ModelFactory for the two-tier classifier.
func GeminiFactory(apiKey, modelName string) ModelFactory {
	return func(ctx context.Context) (Model, error) {
		return NewGeminiModel(ctx, apiKey, modelName)
	}
}
