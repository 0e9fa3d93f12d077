package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	texttospeech "google.golang.org/api/texttospeech/v1"
)

const (
	// MaxSpeechInputBytes is the synthesis request limit for plain text input.
	MaxSpeechInputBytes = 5000
	// SpeechTimeout bounds each synthesis call.
	SpeechTimeout = 30 * time.Second
)

var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// StripMarkup removes bold markers so they are not read aloud.
func StripMarkup(text string) string {
	return boldPattern.ReplaceAllString(text, "$1")
}

// CloudSpeech synthesizes MP3 narration with Cloud Text-to-Speech.
type CloudSpeech struct {
	svc *texttospeech.Service
}

// NewCloudSpeech wraps a service from texttospeech.NewService.
func NewCloudSpeech(svc *texttospeech.Service) *CloudSpeech {
	return &CloudSpeech{svc: svc}
}

// Synthesize returns MP3 audio of text read in the voice for localeCode
// (for example "en-US"). Markup is stripped and overlong input is cut at a
// character boundary.
func (c *CloudSpeech) Synthesize(ctx context.Context, text, localeCode string) ([]byte, error) {
	text = truncateUTF8(StripMarkup(text), MaxSpeechInputBytes)
	if text == "" {
		return nil, fmt.Errorf("synthesize speech: empty text")
	}

	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{LanguageCode: localeCode},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding: "MP3",
		},
	}

	ctx, cancel := context.WithTimeout(ctx, SpeechTimeout)
	defer cancel()

	resp, err := c.svc.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("synthesize speech (%s): %w", localeCode, err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	return audio, nil
}

func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
