package fetcher

import (
	"context"

	"github.com/letsssgooo/shepherdBot/internal/client"
)

// TelegramFetcher реализует Fetcher через Telegram Bot API.
// Смещение сдвигается только после успешного получения обновлений.
type TelegramFetcher struct {
	client client.Client
	offset int
}

func NewTelegramFetcher(client client.Client) *TelegramFetcher {
	return &TelegramFetcher{
		client: client,
		offset: 0,
	}
}

// GetUpdates получает слайс Update, учитывая timeout
func (f *TelegramFetcher) GetUpdates(ctx context.Context, timeout int) ([]client.Update, error) {
	updates, err := f.client.GetUpdates(ctx, f.offset, timeout)
	if err != nil {
		return nil, err
	}

	for _, u := range updates {
		if u.UpdateID >= f.offset {
			f.offset = u.UpdateID + 1
		}
	}

	return updates, nil
}
