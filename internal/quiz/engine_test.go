package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuiz() *Quiz {
	return &Quiz{
		Title:     "선한 목자의 마음",
		Topic:     "선한 목자의 마음",
		Questions: tenQuestions(),
	}
}

func TestGradeScale_Thresholds(t *testing.T) {
	scale := DefaultGradeScale()

	assert.Equal(t, TierHighest, scale.Grade(9, 10))
	assert.Equal(t, TierHighest, scale.Grade(10, 10))
	assert.Equal(t, TierMiddle, scale.Grade(8, 10))
	assert.Equal(t, TierMiddle, scale.Grade(7, 10))
	assert.Equal(t, TierLowest, scale.Grade(6, 10))
	assert.Equal(t, TierLowest, scale.Grade(0, 10))

	assert.Equal(t, "신실한 목자", scale.Label(TierHighest))
	assert.Equal(t, "성장하는 목자", scale.Label(TierMiddle))
	assert.Equal(t, "사모하는 교육생", scale.Label(TierLowest))
}

func TestGradeScale_Configurable(t *testing.T) {
	scale := GradeScale{HighestMin: 4, MiddleMin: 2}

	// пороги не зависят от количества вопросов
	assert.Equal(t, TierHighest, scale.Grade(4, 5))
	assert.Equal(t, TierHighest, scale.Grade(4, 50))
	assert.Equal(t, TierMiddle, scale.Grade(2, 5))
	assert.Equal(t, TierLowest, scale.Grade(1, 5))

	assert.NoError(t, scale.Validate())
	assert.Error(t, GradeScale{HighestMin: 1, MiddleMin: 2}.Validate())
	assert.Error(t, GradeScale{HighestMin: 1, MiddleMin: -1}.Validate())
}

func TestTier_String(t *testing.T) {
	assert.Equal(t, "highest", TierHighest.String())
	assert.Equal(t, "middle", TierMiddle.String())
	assert.Equal(t, "lowest", TierLowest.String())
}

func TestLetters(t *testing.T) {
	idx, ok := LetterToIndex("C")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = LetterToIndex("Z")
	assert.False(t, ok)

	assert.Equal(t, "A", IndexToLetter(0))
	assert.Equal(t, "", IndexToLetter(6))
	assert.Equal(t, "", IndexToLetter(-1))
}

func TestEngine_Flow(t *testing.T) {
	engine := NewEngine(DefaultGradeScale())

	run, err := engine.Start(42, testQuiz())
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)

	for i := 0; i < 10; i++ {
		letter := "B"
		if i == 3 {
			letter = "A"
		}

		_, err = engine.SubmitAnswerByLetter(42, letter)
		require.NoError(t, err)
		require.NoError(t, engine.Advance(42))
	}

	result, err := engine.Result(42)
	require.NoError(t, err)

	assert.Equal(t, run.ID, result.RunID)
	assert.Equal(t, int64(42), result.ChatID)
	assert.Equal(t, 9, result.Score)
	assert.Equal(t, 10, result.Total)
	assert.Equal(t, 90, result.Percent)
	assert.Equal(t, TierHighest, result.Tier)
	assert.Equal(t, "신실한 목자", result.TierLabel)
	require.Len(t, result.Wrong, 1)
	assert.Equal(t, 4, result.Wrong[0].QuestionID)
	assert.Len(t, result.Answers, 10)
}

func TestEngine_NoSession(t *testing.T) {
	engine := NewEngine(DefaultGradeScale())

	_, err := engine.SubmitAnswer(1, 0)
	assert.ErrorIs(t, err, ErrNoSession)

	assert.ErrorIs(t, engine.Advance(1), ErrNoSession)

	_, err = engine.Result(1)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestEngine_ResultBeforeFinish(t *testing.T) {
	engine := NewEngine(DefaultGradeScale())

	_, err := engine.Start(1, testQuiz())
	require.NoError(t, err)

	_, err = engine.Result(1)
	assert.ErrorIs(t, err, ErrSessionNotFinished)
}

func TestEngine_InvalidLetter(t *testing.T) {
	engine := NewEngine(DefaultGradeScale())

	_, err := engine.Start(1, testQuiz())
	require.NoError(t, err)

	_, err = engine.SubmitAnswerByLetter(1, "Z")
	assert.ErrorIs(t, err, ErrOptionOutOfRange)

	// буква E допустима, но у вопроса только четыре варианта
	_, err = engine.SubmitAnswerByLetter(1, "E")
	assert.ErrorIs(t, err, ErrOptionOutOfRange)

	run, err := engine.Run(1)
	require.NoError(t, err)
	assert.Empty(t, run.Session.Answers())
}

func TestEngine_RestartReplacesRun(t *testing.T) {
	engine := NewEngine(DefaultGradeScale())

	first, err := engine.Start(1, testQuiz())
	require.NoError(t, err)

	_, err = engine.SubmitAnswer(1, 1)
	require.NoError(t, err)

	second, err := engine.Start(1, testQuiz())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	run, err := engine.Run(1)
	require.NoError(t, err)
	assert.Empty(t, run.Session.Answers())

	engine.Drop(1)
	_, err = engine.Run(1)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestEngine_StartInvalidQuiz(t *testing.T) {
	engine := NewEngine(DefaultGradeScale())

	_, err := engine.Start(1, &Quiz{Title: "empty"})
	assert.Error(t, err)

	_, err = engine.Start(1, nil)
	assert.Error(t, err)
}

func TestSummarize_Times(t *testing.T) {
	run := &Run{
		ID:        "run",
		Quiz:      testQuiz(),
		Session:   NewSession(tenQuestions()),
		StartedAt: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	play(t, run.Session, 6)

	finished := run.StartedAt.Add(5 * time.Minute)

	result, err := Summarize(run, DefaultGradeScale(), finished)
	require.NoError(t, err)

	assert.Equal(t, finished, result.FinishedAt)
	assert.Equal(t, TierLowest, result.Tier)
	assert.Equal(t, "사모하는 교육생", result.TierLabel)
	assert.Len(t, result.Wrong, 4)
}

func TestEngine_StaleQuestion(t *testing.T) {
	engine := NewEngine(DefaultGradeScale())

	first, err := engine.Start(1, testQuiz())
	require.NoError(t, err)

	_, err = engine.SubmitAnswerAt(1, first.ID, 0, 0)
	require.NoError(t, err)
	require.NoError(t, engine.AdvanceFrom(1, first.ID, 0))

	// кнопка первого вопроса после перехода ко второму
	_, err = engine.SubmitAnswerAt(1, first.ID, 0, 0)
	assert.ErrorIs(t, err, ErrStaleQuestion)
	assert.False(t, first.Session.Answered())
	assert.Len(t, first.Session.Answers(), 1)

	second, err := engine.Start(1, testQuiz())
	require.NoError(t, err)

	// кнопки заменённого прохождения
	_, err = engine.SubmitAnswerAt(1, first.ID, 0, 0)
	assert.ErrorIs(t, err, ErrStaleQuestion)
	assert.ErrorIs(t, engine.AdvanceFrom(1, first.ID, 0), ErrStaleQuestion)
	assert.Empty(t, second.Session.Answers())

	_, err = engine.SubmitAnswerAt(2, second.ID, 0, 0)
	assert.ErrorIs(t, err, ErrNoSession)
}
