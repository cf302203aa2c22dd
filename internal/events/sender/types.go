package sender

import (
	"context"

	"github.com/letsssgooo/shepherdBot/internal/client"
)

// Sender определяет основной интерфейс для отправки сообщений.
type Sender interface {
	// Message отправляет текстовое сообщение.
	Message(ctx context.Context, chatID int64, text string, opts *client.SendOptions) (*client.Message, error)

	// Edit заменяет текст ранее отправленного сообщения.
	Edit(ctx context.Context, chatID int64, messageID int, text string, opts *client.SendOptions) error

	// Delete удаляет сообщение.
	Delete(ctx context.Context, chatID int64, messageID int) error

	// Answer отвечает на нажатие inline кнопки.
	Answer(ctx context.Context, callbackID string, text string) error

	// Document отправляет файл как документ.
	Document(ctx context.Context, chatID int64, fileName string, caption string, data []byte) error
}
