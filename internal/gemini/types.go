package gemini

import (
	"context"
	"errors"
	"time"
)

// Ошибки клиента.
var (
	ErrNoAudio = errors.New("no audio produced")
	ErrNoText  = errors.New("no text produced")
)

// Client определяет интерфейс генеративной модели.
type Client interface {
	// SynthesizeSpeech озвучивает текст голосом voice.
	// Возвращает base64 строку с 16-битным PCM.
	SynthesizeSpeech(ctx context.Context, text, voice string) (string, error)

	// GenerateText возвращает ответ модели на prompt.
	GenerateText(ctx context.Context, prompt string, temperature float64) (string, error)
}

const (
	// Таймаут по умолчанию
	defaultTimeout = 60 * time.Second

	apiVersion = "v1beta"
)
