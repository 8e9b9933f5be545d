// Package analysis scores resumes for the AI tips and career tools pages.
package analysis

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
)

// ErrEmptyResume is returned when there is no text to analyze
var ErrEmptyResume = errors.New("resume text is empty")

// SectionKeywords are the words the heuristic score looks for
var SectionKeywords = []string{"experience", "skills", "education", "projects"}

var keywordSuggestions = map[string]string{
	"experience": "Add a work experience section with your roles and achievements",
	"skills":     "List your key skills so recruiters and ATS filters can find them",
	"education":  "Include your education with degree, institution and years",
	"projects":   "Showcase projects that demonstrate your abilities",
}

// Model analyzes resume text with a language model
type Model interface {
	AnalyzeResume(ctx context.Context, resumeText string) (*models.AnalyzeResponse, error)
}

// Analyzer scores resumes with a model, falling back to Heuristic
type Analyzer struct {
	model Model
	log   zerolog.Logger
}

// NewAnalyzer creates an analyzer; model may be nil
func NewAnalyzer(model Model) *Analyzer {
	return &Analyzer{model: model, log: logger.With("analysis")}
}

// Analyze scores resumeText
func (a *Analyzer) Analyze(ctx context.Context, resumeText string) (*models.AnalyzeResponse, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, ErrEmptyResume
	}

	if a.model != nil {
		result, err := a.model.AnalyzeResume(ctx, resumeText)
		if err == nil {
			if result.Keywords == nil {
				result.Keywords = []string{}
			}
			if result.Suggestions == nil {
				result.Suggestions = []string{}
			}
			return result, nil
		}
		a.log.Warn().Err(err).Msg("model analysis failed, using heuristic score")
	}

	return Heuristic(resumeText), nil
}

// Heuristic scores text without a model: 50, +20 over 300 words, +10 more
// over 500 words, +5 per section keyword present, capped at 100
func Heuristic(resumeText string) *models.AnalyzeResponse {
	words := strings.Fields(resumeText)
	lower := strings.ToLower(resumeText)

	score := 50
	if len(words) > 300 {
		score += 20
	}
	if len(words) > 500 {
		score += 10
	}

	keywords := []string{}
	suggestions := []string{}
	for _, kw := range SectionKeywords {
		if strings.Contains(lower, kw) {
			score += 5
			keywords = append(keywords, kw)
		} else {
			suggestions = append(suggestions, keywordSuggestions[kw])
		}
	}
	if len(words) <= 300 {
		suggestions = append(suggestions, "Expand your resume with more detail about your impact and results")
	}
	if !containsDigit(resumeText) {
		suggestions = append(suggestions, "Quantify achievements with numbers, such as percentages or team sizes")
	}

	return &models.AnalyzeResponse{
		Score:       int(math.Min(float64(score), 100)),
		Keywords:    keywords,
		Suggestions: suggestions,
	}
}

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
