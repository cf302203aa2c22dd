package storage

import (
	"context"
	"errors"

	"github.com/letsssgooo/shepherdBot/internal/domain/models"
)

// ErrNotFound возвращается, если результат не найден.
var ErrNotFound = errors.New("result not found")

// Storage определяет интерфейс для хранения результатов квизов.
type Storage interface {
	// SaveResult сохраняет результат прохождения.
	SaveResult(ctx context.Context, result *models.ResultModel) error

	// GetResult возвращает результат по ID.
	GetResult(ctx context.Context, id string) (*models.ResultModel, error)

	// ListResults возвращает последние результаты, новые первыми.
	// limit <= 0 означает все результаты.
	ListResults(ctx context.Context, limit int) ([]*models.ResultModel, error)
}
