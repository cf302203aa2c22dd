package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/letsssgooo/shepherdBot/internal/client"
	"github.com/letsssgooo/shepherdBot/internal/content"
	"github.com/letsssgooo/shepherdBot/internal/events/fetcher"
	"github.com/letsssgooo/shepherdBot/internal/events/sender"
	"github.com/letsssgooo/shepherdBot/internal/quiz"
	"github.com/letsssgooo/shepherdBot/internal/storage"
)

// Пауза между повторными запросами после ошибки получения обновлений.
const retryDelay = 3 * time.Second

// Таймаут на озвучку одного выпуска.
const narrationTimeout = 2 * time.Minute

// Insighter формирует напутствие по итогам квиза.
type Insighter interface {
	Insight(ctx context.Context, topic string, score int) string
}

// Narrator озвучивает выпуск подкаста в WAV.
type Narrator interface {
	NarrateWAV(ctx context.Context, episode content.Episode) ([]byte, error)
}

// Deps содержит зависимости бота.
type Deps struct {
	Fetcher     fetcher.Fetcher
	Sender      sender.Sender
	Engine      *quiz.Engine
	Catalog     *content.Catalog
	Coach       Insighter
	Narrator    Narrator
	Storage     storage.Storage
	Topic       string
	PollTimeout int
}

// Bot реализует Telegram бота для обучения.
type Bot struct {
	fetcher     fetcher.Fetcher
	sender      sender.Sender
	engine      *quiz.Engine
	catalog     *content.Catalog
	coach       Insighter
	narrator    Narrator
	storage     storage.Storage
	topic       string
	pollTimeout int

	// narrations отслеживает фоновые озвучки
	narrations sync.WaitGroup
}

// NewBot создаёт нового бота.
func NewBot(deps Deps) *Bot {
	topic := deps.Topic
	if deps.Catalog != nil && deps.Catalog.Quiz.Topic != "" {
		topic = deps.Catalog.Quiz.Topic
	}

	return &Bot{
		fetcher:     deps.Fetcher,
		sender:      deps.Sender,
		engine:      deps.Engine,
		catalog:     deps.Catalog,
		coach:       deps.Coach,
		narrator:    deps.Narrator,
		storage:     deps.Storage,
		topic:       topic,
		pollTimeout: deps.PollTimeout,
	}
}

// Commands возвращает команды для меню бота.
func Commands() []client.BotCommand {
	return []client.BotCommand{
		{Command: "start", Description: "시작하기"},
		{Command: "lessons", Description: "주차별 강의"},
		{Command: "podcasts", Description: "AI 오디오 학습"},
		{Command: "quiz", Description: "오늘의 퀴즈"},
		{Command: "textbook", Description: "교재 읽기"},
		{Command: "help", Description: "도움말"},
	}
}

// Run запускает бота (long polling) до отмены ctx.
// Перед выходом дожидается фоновых озвучек.
func (b *Bot) Run(ctx context.Context) error {
	defer b.narrations.Wait()

	slog.Info("bot started", "poll_timeout", b.pollTimeout)

	for {
		updates, err := b.fetcher.GetUpdates(ctx, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			slog.Error("failed to get updates", "err", err)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retryDelay):
			}
			continue
		}

		for _, update := range updates {
			if err := b.HandleUpdate(ctx, update); err != nil {
				slog.Error("failed to handle update", "update_id", update.UpdateID, "err", err)
			}
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

// HandleUpdate обрабатывает одно обновление.
func (b *Bot) HandleUpdate(ctx context.Context, update client.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Chat != nil:
		return b.handleMessage(ctx, update.Message)
	default:
		return nil
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *client.Message) error {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if letter := strings.ToUpper(text); len(letter) == 1 {
		if _, ok := quiz.LetterToIndex(letter); ok {
			return b.answerByLetter(ctx, chatID, letter)
		}
	}

	if !strings.HasPrefix(text, "/") {
		return b.send(ctx, chatID, msgUnknownCommand, nil)
	}

	command, arg := parseCommand(text)

	slog.Debug("command received", "chat_id", chatID, "command", command, "arg", arg)

	switch command {
	case "start", "help":
		return b.send(ctx, chatID, msgHelp, homeKeyboard())
	case "lessons":
		return b.showLessons(ctx, chatID)
	case "textbook":
		return b.showTextbook(ctx, chatID, arg)
	case "podcasts":
		return b.showPodcasts(ctx, chatID)
	case "quiz":
		return b.startQuiz(ctx, chatID)
	default:
		return b.send(ctx, chatID, msgUnknownCommand, nil)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *client.CallbackQuery) error {
	if cq.Message == nil || cq.Message.Chat == nil {
		return b.sender.Answer(ctx, cq.ID, "")
	}

	chatID := cq.Message.Chat.ID
	username := ""
	if cq.From != nil {
		username = cq.From.Username
	}

	parts := strings.SplitN(cq.Data, ":", 3)

	slog.Debug("callback received", "chat_id", chatID, "data", cq.Data)

	switch {
	case len(parts) == 3 && parts[0] == "quiz" && parts[1] == "answer":
		return b.answerCallback(ctx, cq, parts[2])
	case len(parts) == 3 && parts[0] == "quiz" && parts[1] == "next":
		notice, err := b.next(ctx, chatID, username, parts[2])
		return errors.Join(err, b.sender.Answer(ctx, cq.ID, notice))
	case len(parts) == 3 && parts[0] == "pod" && parts[1] == "play":
		notice := b.playEpisode(ctx, chatID, parts[2])
		return b.sender.Answer(ctx, cq.ID, notice)
	case len(parts) == 3 && parts[0] == "pod" && parts[1] == "script":
		err := b.showScript(ctx, chatID, parts[2])
		return errors.Join(err, b.sender.Answer(ctx, cq.ID, ""))
	case len(parts) == 2 && parts[0] == "menu":
		err := b.showView(ctx, chatID, parts[1])
		return errors.Join(err, b.sender.Answer(ctx, cq.ID, ""))
	default:
		return b.sender.Answer(ctx, cq.ID, msgUnknownCommand)
	}
}

func (b *Bot) showView(ctx context.Context, chatID int64, view string) error {
	switch view {
	case "home":
		return b.send(ctx, chatID, msgHelp, homeKeyboard())
	case "lessons":
		return b.showLessons(ctx, chatID)
	case "podcasts":
		return b.showPodcasts(ctx, chatID)
	case "quiz":
		return b.startQuiz(ctx, chatID)
	default:
		return b.send(ctx, chatID, msgUnknownCommand, nil)
	}
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, keyboard *client.InlineKeyboardMarkup) error {
	var opts *client.SendOptions
	if keyboard != nil {
		opts = &client.SendOptions{ReplyMarkup: keyboard}
	}

	_, err := b.sender.Message(ctx, chatID, text, opts)

	return err
}

// parseCommand разбирает "/cmd@bot arg" на команду и аргумент.
func parseCommand(text string) (string, string) {
	fields := strings.Fields(strings.TrimPrefix(text, "/"))
	if len(fields) == 0 {
		return "", ""
	}

	command := strings.ToLower(fields[0])
	if i := strings.Index(command, "@"); i >= 0 {
		command = command[:i]
	}

	return command, strings.Join(fields[1:], " ")
}
