package quiz

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Run описывает активное прохождение квиза пользователем.
type Run struct {
	ID        string
	ChatID    int64
	Quiz      *Quiz
	Session   *Session
	StartedAt time.Time
}

// Result содержит итог завершённого прохождения.
type Result struct {
	RunID      string
	ChatID     int64
	QuizTitle  string
	Score      int
	Total      int
	Percent    int
	Tier       Tier
	TierLabel  string
	Answers    []AnswerRecord
	Wrong      []Review
	StartedAt  time.Time
	FinishedAt time.Time
}

// Engine хранит прохождения квиза по чатам.
// Мьютекс защищает только карту: каждой сессией владеет один чат.
type Engine struct {
	scale GradeScale
	runs  map[int64]*Run
	mu    sync.Mutex
}

// NewEngine создаёт новый Engine.
func NewEngine(scale GradeScale) *Engine {
	return &Engine{
		scale: scale,
		runs:  make(map[int64]*Run),
	}
}

// Scale возвращает шкалу оценок.
func (e *Engine) Scale() GradeScale {
	return e.scale
}

// Start начинает новое прохождение для чата, заменяя предыдущее.
func (e *Engine) Start(chatID int64, quiz *Quiz) (*Run, error) {
	if err := Validate(quiz); err != nil {
		return nil, fmt.Errorf("can not start quiz, %w", err)
	}

	run := &Run{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Quiz:      quiz,
		Session:   NewSession(quiz.Questions),
		StartedAt: time.Now(),
	}

	e.mu.Lock()
	e.runs[chatID] = run
	e.mu.Unlock()

	return run, nil
}

// Run возвращает активное прохождение чата.
func (e *Engine) Run(chatID int64) (*Run, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	run, ok := e.runs[chatID]
	if !ok {
		return nil, ErrNoSession
	}

	return run, nil
}

// SubmitAnswer регистрирует ответ на текущий вопрос чата.
func (e *Engine) SubmitAnswer(chatID int64, selected int) (AnswerRecord, error) {
	run, err := e.Run(chatID)
	if err != nil {
		return AnswerRecord{}, err
	}

	return run.Session.SubmitAnswer(selected)
}

// SubmitAnswerByLetter регистрирует ответ по букве.
func (e *Engine) SubmitAnswerByLetter(chatID int64, letter string) (AnswerRecord, error) {
	idx, ok := LetterToIndex(letter)
	if !ok {
		return AnswerRecord{}, ErrOptionOutOfRange
	}

	return e.SubmitAnswer(chatID, idx)
}

// Advance переводит прохождение чата к следующему вопросу.
func (e *Engine) Advance(chatID int64) error {
	run, err := e.Run(chatID)
	if err != nil {
		return err
	}

	return run.Session.Advance()
}

// SubmitAnswerAt регистрирует ответ, только если runID и questionIdx
// совпадают с активным прохождением и его текущим вопросом.
func (e *Engine) SubmitAnswerAt(chatID int64, runID string, questionIdx int, selected int) (AnswerRecord, error) {
	run, err := e.current(chatID, runID, questionIdx)
	if err != nil {
		return AnswerRecord{}, err
	}

	return run.Session.SubmitAnswer(selected)
}

// AdvanceFrom переводит прохождение дальше, только если questionIdx
// остаётся текущим вопросом прохождения runID.
func (e *Engine) AdvanceFrom(chatID int64, runID string, questionIdx int) error {
	run, err := e.current(chatID, runID, questionIdx)
	if err != nil {
		return err
	}

	return run.Session.Advance()
}

func (e *Engine) current(chatID int64, runID string, questionIdx int) (*Run, error) {
	run, err := e.Run(chatID)
	if err != nil {
		return nil, err
	}

	if idx, _ := run.Session.Progress(); run.ID != runID || idx != questionIdx {
		return nil, ErrStaleQuestion
	}

	return run, nil
}

// Result возвращает итог завершённого прохождения.
func (e *Engine) Result(chatID int64) (*Result, error) {
	run, err := e.Run(chatID)
	if err != nil {
		return nil, err
	}

	return Summarize(run, e.scale, time.Now())
}

// Drop удаляет прохождение чата.
func (e *Engine) Drop(chatID int64) {
	e.mu.Lock()
	delete(e.runs, chatID)
	e.mu.Unlock()
}

// Summarize собирает итог завершённого прохождения.
func Summarize(run *Run, scale GradeScale, finishedAt time.Time) (*Result, error) {
	wrong, err := run.Session.WrongAnswers()
	if err != nil {
		return nil, err
	}

	score := run.Session.Score()
	total := run.Session.Total()
	tier := scale.Grade(score, total)

	return &Result{
		RunID:      run.ID,
		ChatID:     run.ChatID,
		QuizTitle:  run.Quiz.Title,
		Score:      score,
		Total:      total,
		Percent:    run.Session.Percent(),
		Tier:       tier,
		TierLabel:  scale.Label(tier),
		Answers:    run.Session.Answers(),
		Wrong:      wrong,
		StartedAt:  run.StartedAt,
		FinishedAt: finishedAt,
	}, nil
}
