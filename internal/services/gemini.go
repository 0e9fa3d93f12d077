package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"

	"github.com/rahul4469/landmark-guide/internal/models"
)

// GeminiTimeout bounds each model call.
const GeminiTimeout = 60 * time.Second

const describePrompt = `You are an expert in geography and tourism. Analyze the image and identify the landmark shown.
Provide:
1. Name (in English)
2. Location (City, Country)
3. Historical significance
4. Dimensions
5. Nearby places (maximum 5, separated by commas).
Respond in English with clear section headers like "Name:", "Location:", "Historical significance:", "Dimensions:", "Nearby places:".`

// contentGenerator is the part of *genai.GenerativeModel the describer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiDescriber identifies landmarks in photos and translates the answer.
type GeminiDescriber struct {
	model     contentGenerator
	languages *LanguageCatalog
}

// NewGeminiDescriber wraps a model from client.GenerativeModel. Answers in
// the catalog's default language are not translated.
func NewGeminiDescriber(model *genai.GenerativeModel, languages *LanguageCatalog) *GeminiDescriber {
	return newGeminiDescriber(model, languages)
}

// newGeminiDescriber accepts any generator, for tests.
func newGeminiDescriber(gen contentGenerator, languages *LanguageCatalog) *GeminiDescriber {
	return &GeminiDescriber{model: gen, languages: languages}
}

// Describe asks the model about img and extracts the labelled fields from
// its English answer. For any language other than the catalog default the
// displayed text is translated afterwards; extracted fields always stay
// English. An empty language means the default.
func (g *GeminiDescriber) Describe(ctx context.Context, img models.UploadedImage, language string) (*models.DescriptionResult, error) {
	if len(img.Data) == 0 {
		return nil, models.FileError{Issue: "empty upload"}
	}

	english, err := g.generate(ctx, genai.Text(describePrompt), genai.Blob{MIMEType: img.MIMEType, Data: img.Data})
	if err != nil {
		return nil, fmt.Errorf("describe landmark: %w", err)
	}

	fields := ExtractFields(english)
	result := &models.DescriptionResult{
		RawText:      english,
		Text:         english,
		Language:     language,
		LandmarkName: fields.Name,
		Location:     fields.Location,
		NearbyPlaces: fields.NearbyPlaces,
	}

	if language == "" {
		language = g.languages.Default
		result.Language = language
	}
	if g.languages.IsDefault(language) {
		return result, nil
	}

	translated, err := g.Translate(ctx, english, language)
	if err != nil {
		return nil, err
	}
	result.Text = translated
	return result, nil
}

// Translate renders text in language, keeping proper nouns in English.
func (g *GeminiDescriber) Translate(ctx context.Context, text, language string) (string, error) {
	prompt := fmt.Sprintf("Translate the following text to %s. Keep all proper nouns "+
		"(e.g., names of people, places, landmarks) in English unchanged:\n%s", language, text)

	out, err := g.generate(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", language, err)
	}
	return out, nil
}

func (g *GeminiDescriber) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, GeminiTimeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", models.ErrEmptyModelResponse
	}
	return text, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
