package quiz

import "math"

// Session описывает линейную сессию прохождения квиза.
// Сессией владеет один пользователь, поэтому блокировок внутри нет.
type Session struct {
	questions    []Question
	currentIndex int
	answered     bool
	finished     bool
	answers      []AnswerRecord
}

// NewSession создаёт сессию в состоянии InProgress(0).
// Вопросы копируются, чтобы их нельзя было изменить во время сессии.
func NewSession(questions []Question) *Session {
	qs := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		qs[i] = q
	}

	return &Session{
		questions: qs,
		answers:   make([]AnswerRecord, 0, len(qs)),
	}
}

// State возвращает текущее состояние сессии.
func (s *Session) State() State {
	if s.finished {
		return StateFinished
	}

	return StateInProgress
}

// Finished сообщает, завершена ли сессия.
func (s *Session) Finished() bool {
	return s.finished
}

// Answered сообщает, есть ли ответ на текущий вопрос.
func (s *Session) Answered() bool {
	return s.answered
}

// Current возвращает текущий вопрос. Второе значение false, если сессия завершена.
func (s *Session) Current() (Question, bool) {
	if s.finished || s.currentIndex >= len(s.questions) {
		return Question{}, false
	}

	return s.questions[s.currentIndex], true
}

// Progress возвращает индекс текущего вопроса и общее количество вопросов.
func (s *Session) Progress() (int, int) {
	return s.currentIndex, len(s.questions)
}

// Total возвращает количество вопросов.
func (s *Session) Total() int {
	return len(s.questions)
}

// SubmitAnswer регистрирует ответ на текущий вопрос.
func (s *Session) SubmitAnswer(selected int) (AnswerRecord, error) {
	question, ok := s.Current()
	if !ok {
		return AnswerRecord{}, ErrSessionFinished
	}

	if s.answered {
		return AnswerRecord{}, ErrAlreadyAnswered
	}

	if selected < 0 || selected >= len(question.Options) {
		return AnswerRecord{}, ErrOptionOutOfRange
	}

	record := AnswerRecord{
		QuestionID:          question.ID,
		SelectedOptionIndex: selected,
		IsCorrect:           selected == question.CorrectOptionIndex,
	}

	s.answers = append(s.answers, record)
	s.answered = true

	return record, nil
}

// Advance переходит к следующему вопросу или завершает сессию после последнего.
func (s *Session) Advance() error {
	if s.finished {
		return ErrSessionFinished
	}

	if !s.answered {
		return ErrNotAnswered
	}

	if s.currentIndex == len(s.questions)-1 {
		s.finished = true
		return nil
	}

	s.currentIndex++
	s.answered = false

	return nil
}

// Score возвращает количество правильных ответов.
func (s *Session) Score() int {
	score := 0
	for _, a := range s.answers {
		if a.IsCorrect {
			score++
		}
	}

	return score
}

// Percent возвращает процент правильных ответов, округлённый до целого.
func (s *Session) Percent() int {
	if len(s.questions) == 0 {
		return 0
	}

	return int(math.Round(float64(s.Score()) / float64(len(s.questions)) * 100))
}

// Answers возвращает копию записанных ответов.
func (s *Session) Answers() []AnswerRecord {
	return append([]AnswerRecord(nil), s.answers...)
}

// WrongAnswers возвращает неправильные ответы в порядке вопросов.
// Доступно только после завершения сессии.
func (s *Session) WrongAnswers() ([]Review, error) {
	if !s.finished {
		return nil, ErrSessionNotFinished
	}

	reviews := make([]Review, 0)

	for i, a := range s.answers {
		if a.IsCorrect {
			continue
		}

		// ответы добавляются строго по порядку вопросов
		question := s.questions[i]

		reviews = append(reviews, Review{
			QuestionID:    question.ID,
			Prompt:        question.Prompt,
			ChosenOption:  question.Options[a.SelectedOptionIndex],
			CorrectOption: question.Options[question.CorrectOptionIndex],
			Explanation:   question.Explanation,
		})
	}

	return reviews, nil
}
