package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/letsssgooo/shepherdBot/internal/client"
	"github.com/letsssgooo/shepherdBot/internal/domain/models"
	"github.com/letsssgooo/shepherdBot/internal/quiz"
)

// startQuiz начинает новое прохождение и отправляет первый вопрос.
func (b *Bot) startQuiz(ctx context.Context, chatID int64) error {
	run, err := b.engine.Start(chatID, &b.catalog.Quiz)
	if err != nil {
		slog.Error("failed to start quiz", "chat_id", chatID, "err", err)
		return errors.Join(err, b.send(ctx, chatID, msgInternalError, nil))
	}

	slog.Info("quiz started", "chat_id", chatID, "run_id", run.ID)

	return b.sendQuestion(ctx, run)
}

func (b *Bot) sendQuestion(ctx context.Context, run *quiz.Run) error {
	question, ok := run.Session.Current()
	if !ok {
		return nil
	}

	idx, total := run.Session.Progress()

	return b.send(ctx, run.ChatID, questionText(run.Quiz.Title, question, idx, total), answerKeyboard(run.ID, idx, question))
}

// answerCallback обрабатывает нажатие кнопки с вариантом ответа.
// raw имеет вид "<runID>:<questionIdx>:<option>".
func (b *Bot) answerCallback(ctx context.Context, cq *client.CallbackQuery, raw string) error {
	chatID := cq.Message.Chat.ID

	fields := strings.Split(raw, ":")
	if len(fields) != 3 {
		return b.sender.Answer(ctx, cq.ID, msgStaleQuestion)
	}

	ref, ok := parseQuestionRef(fields[0], fields[1])
	if !ok {
		return b.sender.Answer(ctx, cq.ID, msgStaleQuestion)
	}

	selected, err := strconv.Atoi(fields[2])
	if err != nil {
		return b.sender.Answer(ctx, cq.ID, msgOptionOutOfRange)
	}

	record, err := b.engine.SubmitAnswerAt(chatID, ref.runID, ref.index, selected)
	if err != nil {
		notice, unexpected := contractNotice(err)
		return errors.Join(unexpected, b.sender.Answer(ctx, cq.ID, notice))
	}

	text, keyboard, err := b.feedback(chatID, record)
	if err != nil {
		return errors.Join(err, b.sender.Answer(ctx, cq.ID, ""))
	}

	editErr := b.sender.Edit(ctx, chatID, cq.Message.MessageID, text, &client.SendOptions{ReplyMarkup: keyboard})

	notice := msgIncorrect
	if record.IsCorrect {
		notice = msgCorrect
	}

	return errors.Join(editErr, b.sender.Answer(ctx, cq.ID, notice))
}

// answerByLetter обрабатывает ответ, присланный текстом (A-F).
func (b *Bot) answerByLetter(ctx context.Context, chatID int64, letter string) error {
	record, err := b.engine.SubmitAnswerByLetter(chatID, letter)
	if err != nil {
		notice, unexpected := contractNotice(err)
		return errors.Join(unexpected, b.send(ctx, chatID, notice, nil))
	}

	text, keyboard, err := b.feedback(chatID, record)
	if err != nil {
		return err
	}

	return b.send(ctx, chatID, text, keyboard)
}

// feedback формирует сообщение с результатом ответа на текущий вопрос.
func (b *Bot) feedback(chatID int64, record quiz.AnswerRecord) (string, *client.InlineKeyboardMarkup, error) {
	run, err := b.engine.Run(chatID)
	if err != nil {
		return "", nil, err
	}

	question, ok := run.Session.Current()
	if !ok {
		return "", nil, quiz.ErrSessionFinished
	}

	idx, total := run.Session.Progress()

	var sb strings.Builder
	sb.WriteString(questionText(run.Quiz.Title, question, idx, total))
	sb.WriteString("\n\n")

	if record.IsCorrect {
		sb.WriteString(msgCorrect)
	} else {
		sb.WriteString(msgIncorrect)
		fmt.Fprintf(&sb, "\n선택: %s\n정답: %s",
			optionText(question, record.SelectedOptionIndex),
			optionText(question, question.CorrectOptionIndex),
		)
	}

	if question.Explanation != "" {
		fmt.Fprintf(&sb, "\n\n💡 %s", question.Explanation)
	}

	return sb.String(), nextKeyboard(run.ID, idx, idx == total-1), nil
}

// next переводит к следующему вопросу или завершает квиз.
// raw имеет вид "<runID>:<questionIdx>". Возвращает короткое уведомление для callback.
func (b *Bot) next(ctx context.Context, chatID int64, username string, raw string) (string, error) {
	runID, idx, _ := strings.Cut(raw, ":")

	ref, ok := parseQuestionRef(runID, idx)
	if !ok {
		return msgStaleQuestion, nil
	}

	if err := b.engine.AdvanceFrom(chatID, ref.runID, ref.index); err != nil {
		return contractNotice(err)
	}

	run, err := b.engine.Run(chatID)
	if err != nil {
		return contractNotice(err)
	}

	if !run.Session.Finished() {
		return "", b.sendQuestion(ctx, run)
	}

	return "", b.finish(ctx, chatID, username)
}

// finish подводит итог, сохраняет результат и отправляет его пользователю.
func (b *Bot) finish(ctx context.Context, chatID int64, username string) error {
	result, err := b.engine.Result(chatID)
	if err != nil {
		return err
	}

	insight := b.coach.Insight(ctx, b.topic, result.Score)

	model := models.NewResultModel(result, username, insight)
	if err := b.storage.SaveResult(ctx, model); err != nil {
		slog.Error("failed to save result", "chat_id", chatID, "run_id", result.RunID, "err", err)
	}

	slog.Info("quiz finished",
		"chat_id", chatID,
		"run_id", result.RunID,
		"score", result.Score,
		"total", result.Total,
		"tier", result.Tier,
	)

	return b.send(ctx, chatID, resultText(result, insight), finishKeyboard())
}

// contractNotice переводит ошибку нарушения контракта в уведомление.
// Прочие ошибки возвращаются вторым значением.
func contractNotice(err error) (string, error) {
	switch {
	case errors.Is(err, quiz.ErrNoSession):
		return msgNoSession, nil
	case errors.Is(err, quiz.ErrAlreadyAnswered):
		return msgAlreadyAnswered, nil
	case errors.Is(err, quiz.ErrNotAnswered):
		return msgNotAnswered, nil
	case errors.Is(err, quiz.ErrOptionOutOfRange):
		return msgOptionOutOfRange, nil
	case errors.Is(err, quiz.ErrSessionFinished):
		return msgSessionFinished, nil
	case errors.Is(err, quiz.ErrStaleQuestion):
		return msgStaleQuestion, nil
	default:
		return msgInternalError, err
	}
}

func questionText(title string, q quiz.Question, idx, total int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📝 %s\n문제 %d/%d\n\n%s\n", title, idx+1, total, q.Prompt)
	for i, option := range q.Options {
		fmt.Fprintf(&sb, "\n%s. %s", quiz.IndexToLetter(i), option)
	}

	return sb.String()
}

func optionText(q quiz.Question, idx int) string {
	if idx < 0 || idx >= len(q.Options) {
		return "-"
	}

	return quiz.IndexToLetter(idx) + ". " + q.Options[idx]
}

func resultText(r *quiz.Result, insight string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🏁 퀴즈 완료!\n\n🏅 %s\n점수: %d/%d (%d%%)", r.TierLabel, r.Score, r.Total, r.Percent)

	if insight != "" {
		fmt.Fprintf(&sb, "\n\n💬 %s", insight)
	}

	if len(r.Wrong) == 0 {
		sb.WriteString("\n\n모든 문제를 맞혔습니다! 🎉")
		return sb.String()
	}

	sb.WriteString("\n\n📖 틀린 문제 다시 보기")
	for _, review := range r.Wrong {
		fmt.Fprintf(&sb, "\n\nQ%d. %s\n내 답: %s\n정답: %s", review.QuestionID, review.Prompt, review.ChosenOption, review.CorrectOption)
		if review.Explanation != "" {
			fmt.Fprintf(&sb, "\n💡 %s", review.Explanation)
		}
	}

	return sb.String()
}

// questionRef связывает кнопку с прохождением и вопросом, для которых она отправлена.
type questionRef struct {
	runID string
	index int
}

func parseQuestionRef(runID string, idx string) (questionRef, bool) {
	index, err := strconv.Atoi(idx)
	if runID == "" || err != nil || index < 0 {
		return questionRef{}, false
	}

	return questionRef{runID: runID, index: index}, true
}

func answerData(runID string, questionIdx int, option int) string {
	return fmt.Sprintf("quiz:answer:%s:%d:%d", runID, questionIdx, option)
}

func nextData(runID string, questionIdx int) string {
	return fmt.Sprintf("quiz:next:%s:%d", runID, questionIdx)
}

func answerKeyboard(runID string, questionIdx int, q quiz.Question) *client.InlineKeyboardMarkup {
	row := make([]client.InlineKeyboardButton, 0, len(q.Options))
	for i := range q.Options {
		row = append(row, client.InlineKeyboardButton{
			Text:         quiz.IndexToLetter(i),
			CallbackData: answerData(runID, questionIdx, i),
		})
	}

	return &client.InlineKeyboardMarkup{InlineKeyboard: [][]client.InlineKeyboardButton{row}}
}

func nextKeyboard(runID string, questionIdx int, last bool) *client.InlineKeyboardMarkup {
	text := btnNext
	if last {
		text = btnFinish
	}

	return &client.InlineKeyboardMarkup{InlineKeyboard: [][]client.InlineKeyboardButton{
		{{Text: text, CallbackData: nextData(runID, questionIdx)}},
	}}
}

func finishKeyboard() *client.InlineKeyboardMarkup {
	return &client.InlineKeyboardMarkup{InlineKeyboard: [][]client.InlineKeyboardButton{
		{{Text: btnRetry, CallbackData: "menu:quiz"}, {Text: btnHome, CallbackData: "menu:home"}},
	}}
}

func homeKeyboard() *client.InlineKeyboardMarkup {
	return &client.InlineKeyboardMarkup{InlineKeyboard: [][]client.InlineKeyboardButton{
		{{Text: btnLessons, CallbackData: "menu:lessons"}, {Text: btnPodcasts, CallbackData: "menu:podcasts"}},
		{{Text: btnQuiz, CallbackData: "menu:quiz"}},
	}}
}
