package quiz

import (
	"encoding/json"
	"fmt"
)

// LoadQuiz парсит JSON и проверяет квиз.
func LoadQuiz(data []byte) (*Quiz, error) {
	quiz := &Quiz{}
	if err := json.Unmarshal(data, quiz); err != nil {
		return nil, err
	}

	if err := Validate(quiz); err != nil {
		return nil, fmt.Errorf("can not load quiz, %w", err)
	}

	return quiz, nil
}

// Validate проверяет на корректность структуру квиза.
func Validate(quiz *Quiz) error {
	if quiz == nil {
		return fmt.Errorf("quiz object is nil")
	}

	if quiz.Title == "" {
		return fmt.Errorf("missing field title")
	}

	if len(quiz.Questions) == 0 {
		return fmt.Errorf("need at least one question")
	}

	ids := make(map[int]struct{}, len(quiz.Questions))

	for i, question := range quiz.Questions {
		if question.Prompt == "" {
			return fmt.Errorf("missing field question of %d question", i)
		}

		if len(question.Options) < 2 {
			return fmt.Errorf("amount of options must be at least two in %d question", i)
		}

		if len(question.Options) > len(AnswerLetters) {
			return fmt.Errorf("amount of options must be at most %d in %d question", len(AnswerLetters), i)
		}

		if question.CorrectOptionIndex < 0 {
			return fmt.Errorf("index of correct answer must not be negative in %d question", i)
		}

		if question.CorrectOptionIndex >= len(question.Options) {
			return fmt.Errorf("index of correct answer in %d question is out of range", i)
		}

		if _, ok := ids[question.ID]; ok {
			return fmt.Errorf("duplicate id %d in %d question", question.ID, i)
		}
		ids[question.ID] = struct{}{}
	}

	return nil
}
