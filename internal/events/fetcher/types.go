package fetcher

import (
	"context"

	"github.com/letsssgooo/shepherdBot/internal/client"
)

// Fetcher определяет основной интерфейс для получения сообщений.
type Fetcher interface {
	// GetUpdates получает слайс Update, ожидая не дольше timeout секунд
	GetUpdates(ctx context.Context, timeout int) ([]client.Update, error)
}
