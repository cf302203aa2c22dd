package sender

import (
	"context"
	"strings"

	"github.com/letsssgooo/shepherdBot/internal/client"
)

// MaxMessageLength задаёт ограничение Telegram на длину текста сообщения
// в UTF-16 единицах.
const MaxMessageLength = 4096

// TelegramSender реализует Sender через Telegram Bot API.
type TelegramSender struct {
	client client.Client
}

var _ Sender = (*TelegramSender)(nil)

// NewSender создает новый объект структуры TelegramSender.
func NewSender(client client.Client) *TelegramSender {
	return &TelegramSender{client: client}
}

// Message отправляет текстовое сообщение.
// Слишком длинный текст делится на несколько сообщений, клавиатура
// прикрепляется к последнему. Возвращает последнее отправленное сообщение.
func (s *TelegramSender) Message(
	ctx context.Context,
	chatID int64,
	text string,
	opts *client.SendOptions,
) (*client.Message, error) {
	parts := splitMessage(text, MaxMessageLength)

	var (
		msg *client.Message
		err error
	)
	for i, part := range parts {
		var partOpts *client.SendOptions
		if i == len(parts)-1 {
			partOpts = opts
		} else if opts != nil {
			partOpts = &client.SendOptions{ParseMode: opts.ParseMode}
		}

		msg, err = s.client.SendMessage(ctx, chatID, part, partOpts)
		if err != nil {
			return nil, err
		}
	}

	return msg, nil
}

// Edit заменяет текст ранее отправленного сообщения.
func (s *TelegramSender) Edit(ctx context.Context, chatID int64, messageID int, text string, opts *client.SendOptions) error {
	return s.client.EditMessage(ctx, chatID, messageID, text, opts)
}

// Delete удаляет сообщение.
func (s *TelegramSender) Delete(ctx context.Context, chatID int64, messageID int) error {
	return s.client.DeleteMessage(ctx, chatID, messageID)
}

// Answer отвечает на нажатие inline кнопки.
func (s *TelegramSender) Answer(ctx context.Context, callbackID string, text string) error {
	return s.client.AnswerCallback(ctx, callbackID, text)
}

// Document отправляет файл как документ.
func (s *TelegramSender) Document(ctx context.Context, chatID int64, fileName string, caption string, data []byte) error {
	return s.client.SendDocument(ctx, chatID, fileName, caption, data)
}

// splitMessage делит текст на части не длиннее limit UTF-16 единиц.
// Текст в пределах лимита возвращается без изменений. Части режутся
// по последнему переводу строки, если он есть.
func splitMessage(text string, limit int) []string {
	if limit <= 0 || utf16Len(text) <= limit {
		return []string{text}
	}

	var parts []string

	runes := []rune(text)
	for len(runes) > 0 {
		cut, lastNewline, units := len(runes), -1, 0
		for i, r := range runes {
			width := utf16Width(r)
			if units+width > limit {
				cut = i
				break
			}
			units += width

			if r == '\n' {
				lastNewline = i
			}
		}

		if cut < len(runes) && lastNewline > 0 {
			cut = lastNewline + 1
		}
		if cut == 0 {
			cut = 1
		}

		if part := strings.TrimRight(string(runes[:cut]), "\n"); part != "" {
			parts = append(parts, part)
		}

		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == '\n' {
			runes = runes[1:]
		}
	}

	return parts
}

func utf16Len(text string) int {
	n := 0
	for _, r := range text {
		n += utf16Width(r)
	}

	return n
}

// utf16Width возвращает число UTF-16 единиц для руны.
func utf16Width(r rune) int {
	if r >= 0x10000 {
		return 2
	}

	return 1
}
