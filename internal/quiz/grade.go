package quiz

import (
	"errors"
	"fmt"
)

// Tier задаёт уровень оценки по результатам квиза.
type Tier int

const (
	TierLowest Tier = iota
	TierMiddle
	TierHighest
)

// String возвращает имя уровня.
func (t Tier) String() string {
	switch t {
	case TierHighest:
		return "highest"
	case TierMiddle:
		return "middle"
	default:
		return "lowest"
	}
}

// GradeScale содержит пороги и названия уровней оценки.
// Пороги задаются в конфигурации, а не выводятся из количества вопросов.
type GradeScale struct {
	HighestMin   int    `yaml:"highest_min"`
	MiddleMin    int    `yaml:"middle_min"`
	HighestLabel string `yaml:"highest_label"`
	MiddleLabel  string `yaml:"middle_label"`
	LowestLabel  string `yaml:"lowest_label"`
}

// DefaultGradeScale содержит шкалу квиза из десяти вопросов.
func DefaultGradeScale() GradeScale {
	return GradeScale{
		HighestMin:   9,
		MiddleMin:    7,
		HighestLabel: "신실한 목자",
		MiddleLabel:  "성장하는 목자",
		LowestLabel:  "사모하는 교육생",
	}
}

// Validate проверяет согласованность порогов.
func (g GradeScale) Validate() error {
	if g.MiddleMin < 0 {
		return errors.New("middle_min must not be negative")
	}

	if g.HighestMin < g.MiddleMin {
		return fmt.Errorf("highest_min %d must not be lower than middle_min %d", g.HighestMin, g.MiddleMin)
	}

	return nil
}

// Grade возвращает уровень для количества правильных ответов.
// totalQuestions не влияет на пороги и передаётся для совместимости с отчётами.
func (g GradeScale) Grade(score, totalQuestions int) Tier {
	switch {
	case score >= g.HighestMin:
		return TierHighest
	case score >= g.MiddleMin:
		return TierMiddle
	default:
		return TierLowest
	}
}

// Label возвращает название уровня.
func (g GradeScale) Label(t Tier) string {
	switch t {
	case TierHighest:
		return g.HighestLabel
	case TierMiddle:
		return g.MiddleLabel
	default:
		return g.LowestLabel
	}
}
