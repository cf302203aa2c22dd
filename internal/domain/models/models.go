package models

import (
	"time"

	"github.com/letsssgooo/shepherdBot/internal/quiz"
)

// Файл для работы с моделями для базы данных, которые доступны извне.
// Обработчики создают экземпляры моделей, заполняют их данными и
// передают в соответствующую функцию хранилища.

// AnswerModel определяет ответ на один вопрос внутри результата
type AnswerModel struct {
	QuestionID int  `json:"question_id"`
	Selected   int  `json:"selected"`
	IsCorrect  bool `json:"is_correct"`
}

// ResultModel определяет модель для таблицы с результатами квизов
type ResultModel struct {
	ID         string        `json:"id"`
	RunID      string        `json:"run_id"`
	ChatID     int64         `json:"chat_id"`
	Username   string        `json:"username"`
	QuizTitle  string        `json:"quiz_title"`
	Score      int           `json:"score"`
	Total      int           `json:"total"`
	Percent    int           `json:"percent"`
	Tier       string        `json:"tier"`
	TierLabel  string        `json:"tier_label"`
	Answers    []AnswerModel `json:"answers"`
	Insight    string        `json:"insight"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// WrongQuestionIDs возвращает идентификаторы вопросов с неправильными ответами
func (r *ResultModel) WrongQuestionIDs() []int {
	ids := make([]int, 0)
	for _, a := range r.Answers {
		if !a.IsCorrect {
			ids = append(ids, a.QuestionID)
		}
	}
	return ids
}

// NewResultModel заполняет модель по итогу прохождения квиза
func NewResultModel(result *quiz.Result, username, insight string) *ResultModel {
	answers := make([]AnswerModel, 0, len(result.Answers))
	for _, a := range result.Answers {
		answers = append(answers, AnswerModel{
			QuestionID: a.QuestionID,
			Selected:   a.SelectedOptionIndex,
			IsCorrect:  a.IsCorrect,
		})
	}

	return &ResultModel{
		RunID:      result.RunID,
		ChatID:     result.ChatID,
		Username:   username,
		QuizTitle:  result.QuizTitle,
		Score:      result.Score,
		Total:      result.Total,
		Percent:    result.Percent,
		Tier:       result.Tier.String(),
		TierLabel:  result.TierLabel,
		Answers:    answers,
		Insight:    insight,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	}
}
