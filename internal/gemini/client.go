package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Options содержит настройки клиента.
type Options struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	SpeechModel string
	Timeout     time.Duration
}

// GenAIClient реализует Client через Gemini API.
type GenAIClient struct {
	opts   Options
	models *genai.Models
}

var _ Client = (*GenAIClient)(nil)

// NewGenAIClient создаёт клиента Gemini API.
// Пустой BaseURL означает адрес по умолчанию.
func NewGenAIClient(ctx context.Context, opts Options) (*GenAIClient, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    opts.BaseURL,
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GenAIClient{
		opts:   opts,
		models: client.Models,
	}, nil
}

// SynthesizeSpeech озвучивает text голосом voice.
// Возвращает base64 строку с PCM или ErrNoAudio, если модель не вернула звук.
func (c *GenAIClient) SynthesizeSpeech(ctx context.Context, text, voice string) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	resp, err := c.generate(ctx, c.opts.SpeechModel, text, config)
	if err != nil {
		return "", err
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
			}
		}
	}

	return "", ErrNoAudio
}

// GenerateText возвращает текстовый ответ модели.
func (c *GenAIClient) GenerateText(ctx context.Context, prompt string, temperature float64) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}

	resp, err := c.generate(ctx, c.opts.TextModel, prompt, config)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrNoText
	}

	return text, nil
}

// generate выполняет запрос generateContent к модели model.
func (c *GenAIClient) generate(
	ctx context.Context,
	model string,
	prompt string,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancelFunc()

	started := time.Now()

	resp, err := c.models.GenerateContent(ctx, model, genai.Text(prompt), config)

	slog.Debug("gemini request done", "model", model, "elapsed", time.Since(started), "err", err)

	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("gemini api error: status %d: %s", apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("failed to generate content with model %s: %w", model, err)
	}

	return resp, nil
}

// Unavailable реализует Client без ключа API: каждый вызов сразу возвращает ошибку.
type Unavailable struct{}

var _ Client = Unavailable{}

// SynthesizeSpeech всегда возвращает ErrNoAudio.
func (Unavailable) SynthesizeSpeech(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%w: api key is not set", ErrNoAudio)
}

// GenerateText всегда возвращает ErrNoText.
func (Unavailable) GenerateText(context.Context, string, float64) (string, error) {
	return "", fmt.Errorf("%w: api key is not set", ErrNoText)
}
