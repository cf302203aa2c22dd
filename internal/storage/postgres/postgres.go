package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/letsssgooo/shepherdBot/internal/domain/models"
	"github.com/letsssgooo/shepherdBot/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS quiz_results (
	id          TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL,
	chat_id     BIGINT NOT NULL,
	username    TEXT NOT NULL DEFAULT '',
	quiz_title  TEXT NOT NULL,
	score       INTEGER NOT NULL,
	total       INTEGER NOT NULL,
	percent     INTEGER NOT NULL,
	tier        TEXT NOT NULL,
	tier_label  TEXT NOT NULL,
	answers     JSONB NOT NULL,
	insight     TEXT NOT NULL DEFAULT '',
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS quiz_results_finished_at_idx ON quiz_results (finished_at DESC);
`

const selectColumns = `
	SELECT id, run_id, chat_id, username, quiz_title, score, total, percent,
		tier, tier_label, answers, insight, started_at, finished_at
	FROM quiz_results
`

// Storage хранит результаты квизов в PostgreSQL.
type Storage struct {
	pool *pgxpool.Pool
}

var _ storage.Storage = (*Storage)(nil)

// NewStorage подключается к базе по dsn.
func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("can not parse database dsn, %w", err)
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("can not connect to database, %w", err)
	}

	return &Storage{pool: pool}, nil
}

// Migrate создаёт таблицу результатов, если её нет.
func (s *Storage) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("can not migrate database, %w", err)
	}

	return nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.pool.Close()
}

func (s *Storage) SaveResult(ctx context.Context, result *models.ResultModel) error {
	if result == nil {
		return errors.New("result object is nil")
	}

	if result.ID == "" {
		result.ID = uuid.NewString()
	}

	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("can not marshal answers, %w", err)
	}

	query := `
	INSERT INTO quiz_results (
		id, run_id, chat_id, username, quiz_title, score, total, percent,
		tier, tier_label, answers, insight, started_at, finished_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (id) DO UPDATE SET
		score = EXCLUDED.score,
		total = EXCLUDED.total,
		percent = EXCLUDED.percent,
		tier = EXCLUDED.tier,
		tier_label = EXCLUDED.tier_label,
		answers = EXCLUDED.answers,
		insight = EXCLUDED.insight,
		finished_at = EXCLUDED.finished_at
	`

	_, err = s.pool.Exec(ctx, query,
		result.ID, result.RunID, result.ChatID, result.Username, result.QuizTitle,
		result.Score, result.Total, result.Percent, result.Tier, result.TierLabel,
		string(answers), result.Insight, result.StartedAt, result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("can not save result, %w", err)
	}

	return nil
}

func (s *Storage) GetResult(ctx context.Context, id string) (*models.ResultModel, error) {
	row := s.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id)

	result, err := scanResult(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can not get result, %w", err)
	}

	return result, nil
}

func (s *Storage) ListResults(ctx context.Context, limit int) ([]*models.ResultModel, error) {
	query := selectColumns + ` ORDER BY finished_at DESC`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("can not list results, %w", err)
	}
	defer rows.Close()

	results := make([]*models.ResultModel, 0)
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("can not scan result, %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("can not list results, %w", err)
	}

	return results, nil
}

func scanResult(row pgx.Row) (*models.ResultModel, error) {
	var (
		result  models.ResultModel
		answers []byte
	)

	err := row.Scan(
		&result.ID, &result.RunID, &result.ChatID, &result.Username, &result.QuizTitle,
		&result.Score, &result.Total, &result.Percent, &result.Tier, &result.TierLabel,
		&answers, &result.Insight, &result.StartedAt, &result.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(answers, &result.Answers); err != nil {
		return nil, fmt.Errorf("can not unmarshal answers, %w", err)
	}

	return &result, nil
}
