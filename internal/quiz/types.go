package quiz

import "errors"

// Quiz представляет загруженный квиз.
type Quiz struct {
	Title     string     `json:"title" yaml:"title"`
	Topic     string     `json:"topic" yaml:"topic"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question представляет вопрос квиза.
type Question struct {
	ID                 int      `json:"id" yaml:"id"`
	Prompt             string   `json:"question" yaml:"question"`
	Options            []string `json:"options" yaml:"options"`
	CorrectOptionIndex int      `json:"correct" yaml:"correct"`
	Explanation        string   `json:"explanation" yaml:"explanation"`
}

// AnswerRecord представляет ответ на вопрос.
// Создаётся один раз в момент ответа и больше не пересчитывается.
type AnswerRecord struct {
	QuestionID          int
	SelectedOptionIndex int
	IsCorrect           bool
}

// Review содержит неправильный ответ вместе с вопросом для разбора ошибок.
type Review struct {
	QuestionID    int
	Prompt        string
	ChosenOption  string
	CorrectOption string
	Explanation   string
}

// State описывает состояние сессии квиза.
type State string

const (
	StateInProgress State = "in_progress"
	StateFinished   State = "finished"
)

// Ошибки нарушения контракта сессии. Состояние сессии при них не меняется.
var (
	ErrSessionFinished    = errors.New("quiz session is finished")
	ErrSessionNotFinished = errors.New("quiz session is not finished")
	ErrAlreadyAnswered    = errors.New("current question is already answered")
	ErrNotAnswered        = errors.New("current question is not answered yet")
	ErrOptionOutOfRange   = errors.New("selected option is out of range")
	ErrNoSession          = errors.New("no active quiz session")
	ErrStaleQuestion      = errors.New("question is not current in the active run")
)

// AnswerLetters перечисляет допустимые буквы для ответов (A-F для до 6 вариантов).
var AnswerLetters = []string{"A", "B", "C", "D", "E", "F"}

// LetterToIndex преобразует букву в индекс (A=0, B=1, ...).
func LetterToIndex(letter string) (int, bool) {
	for i, l := range AnswerLetters {
		if l == letter {
			return i, true
		}
	}

	return -1, false
}

// IndexToLetter преобразует индекс в букву (0=A, 1=B, ...).
func IndexToLetter(idx int) string {
	if idx >= 0 && idx < len(AnswerLetters) {
		return AnswerLetters[idx]
	}

	return ""
}
