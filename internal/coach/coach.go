// Package coach генерирует короткое напутствие по итогам квиза.
package coach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// TextGenerator генерирует текст по запросу.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float64) (string, error)
}

// Coach формирует напутствие, при ошибке модели возвращает запасной текст.
type Coach struct {
	generator   TextGenerator
	fallback    string
	temperature float64
}

// New создаёт новый Coach.
func New(generator TextGenerator, fallback string, temperature float64) *Coach {
	return &Coach{
		generator:   generator,
		fallback:    fallback,
		temperature: temperature,
	}
}

// Insight возвращает напутствие для темы topic и количества правильных ответов score.
// Никогда не возвращает ошибку: при сбое используется запасной текст.
func (c *Coach) Insight(ctx context.Context, topic string, score int) string {
	if c.generator == nil {
		return c.fallback
	}

	text, err := c.generator.GenerateText(ctx, Prompt(topic, score), c.temperature)
	if err != nil {
		slog.Warn("insight generation failed", "topic", topic, "score", score, "err", err)
		return c.fallback
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return c.fallback
	}

	return text
}

// Prompt строит запрос к модели.
func Prompt(topic string, score int) string {
	return fmt.Sprintf(
		"목자훈련 교육생이 '%s' 강의를 듣고 퀴즈에서 %d점을 받았습니다. "+
			"이 교육생에게 따뜻한 격려의 말과 함께, 일상에서 목자의 마음을 어떻게 실천할 수 있을지 "+
			"짧고 은혜로운 조언(3문장 내외)을 해주세요. 말투는 정중하고 부드러운 한국어 교회 톤으로 해주세요.",
		topic,
		score,
	)
}
