package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/rs/zerolog"

	"github.com/resumify/backend/config"
	"github.com/resumify/backend/labels"
	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
)

// Client wraps the Vertex AI Gemini client
type Client struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	log       zerolog.Logger
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.GeminiModel)
	model.SetTemperature(0.2)
	model.SetTopP(0.8)
	model.SetMaxOutputTokens(8192)
	model.ResponseMIMEType = "application/json"

	return &Client{
		client:    client,
		model:     model,
		modelName: cfg.GeminiModel,
		log:       logger.With("gemini"),
	}, nil
}

// Close closes the Gemini client
func (c *Client) Close() error {
	return c.client.Close()
}

// TranslateLabels translates the English form labels into language
func (c *Client) TranslateLabels(ctx context.Context, language labels.Language, english labels.Set) (labels.Set, error) {
	source, _ := json.Marshal(english)

	prompt := fmt.Sprintf(`Translate the values of this JSON object of resume form labels into %s (%s).
Keep every key unchanged. Keep placeholders short, as they appear in form inputs.

%s

Return ONLY the JSON object, no markdown formatting, no explanation.`, language.Name, language.Code, source)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var set labels.Set
	if err := json.Unmarshal([]byte(text), &set); err != nil {
		c.log.Warn().Str("language", language.Code).Str("response", text).Msg("failed to parse label translation")
		return nil, fmt.Errorf("failed to parse labels JSON: %w", err)
	}

	// Keys the model dropped fall back to English.
	for key, value := range english {
		if strings.TrimSpace(set[key]) == "" {
			set[key] = value
		}
	}
	return set, nil
}

// TranslateResume translates the free-text content of a resume into targetLang
func (c *Client) TranslateResume(ctx context.Context, r *models.Resume, targetLang string) (*models.Resume, error) {
	language, ok := labels.Lookup(targetLang)
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", targetLang)
	}

	source, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode resume: %w", err)
	}

	prompt := fmt.Sprintf(`Translate this resume into %s (%s).

Rules:
- Translate free text such as summaries, descriptions, titles and list entries
- Do NOT translate names, email addresses, phone numbers, URLs, company names or dates
- Keep every key and the JSON shape exactly as given: strings stay strings, arrays stay arrays, objects keep their keys
- Set "translatedLabels" to an object translating these section names: %s

RESUME:
%s

Return ONLY the JSON object, no markdown formatting, no explanation.`,
		language.Name, language.Code, strings.Join(sectionNames(), ", "), source)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var translated models.Resume
	if err := json.Unmarshal([]byte(text), &translated); err != nil {
		c.log.Warn().Str("language", targetLang).Str("response", text).Msg("failed to parse resume translation")
		return nil, fmt.Errorf("failed to parse resume JSON: %w", err)
	}
	translated.Language = targetLang

	c.log.Info().Str("language", targetLang).Msg("translated resume")
	return &translated, nil
}

// AnalyzeResume scores a resume and suggests improvements
func (c *Client) AnalyzeResume(ctx context.Context, resumeText string) (*models.AnalyzeResponse, error) {
	prompt := fmt.Sprintf(`You are an expert resume reviewer and ATS specialist.
Analyze the following resume and return a JSON object:

{
  "score": 0-100,
  "keywords": ["important", "keywords", "found"],
  "suggestions": ["concrete suggestion 1", "concrete suggestion 2"]
}

Score on clarity, structure, measurable impact and keyword coverage.
Give 3 to 6 suggestions.

RESUME:
%s

Return ONLY the JSON object.`, resumeText)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var result models.AnalyzeResponse
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		c.log.Warn().Str("response", text).Msg("failed to parse analysis")
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}
	result.Score = clamp(result.Score, 0, 100)
	return &result, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := cleanJSON(extractText(resp))
	if text == "" {
		return "", fmt.Errorf("no response from Gemini")
	}
	return text, nil
}

func sectionNames() []string {
	names := make([]string, 0, len(labels.DefaultTranslated()))
	for key := range labels.DefaultTranslated() {
		names = append(names, key)
	}
	return names
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String()
}

func cleanJSON(text string) string {
	// Remove markdown code blocks if present
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	return text
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
