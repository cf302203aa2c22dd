package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/letsssgooo/shepherdBot/internal/client"
	"github.com/letsssgooo/shepherdBot/internal/content"
	"github.com/letsssgooo/shepherdBot/internal/podcast"
)

// Максимальная длина страницы учебника в одном сообщении.
const textbookPageLimit = 3500

func (b *Bot) showLessons(ctx context.Context, chatID int64) error {
	if len(b.catalog.Lessons) == 0 {
		return b.send(ctx, chatID, msgNoLessons, nil)
	}

	for _, lesson := range b.catalog.Lessons {
		text := fmt.Sprintf("📚 %s\n\n%s\n\n교재: /textbook %s", lesson.Title, lesson.Description, lesson.ID)

		var keyboard *client.InlineKeyboardMarkup
		if url := lessonURL(lesson); url != "" {
			keyboard = &client.InlineKeyboardMarkup{InlineKeyboard: [][]client.InlineKeyboardButton{
				{{Text: btnWatch, URL: url}},
			}}
		}

		if err := b.send(ctx, chatID, text, keyboard); err != nil {
			return err
		}
	}

	return nil
}

// showTextbook отправляет учебник урока постранично.
// Без аргумента показывается первый урок.
func (b *Bot) showTextbook(ctx context.Context, chatID int64, id string) error {
	if len(b.catalog.Lessons) == 0 {
		return b.send(ctx, chatID, msgNoLessons, nil)
	}

	lesson := b.catalog.Lessons[0]
	if id != "" {
		var ok bool
		if lesson, ok = b.catalog.Lesson(id); !ok {
			return b.send(ctx, chatID, msgUnknownLesson, nil)
		}
	}

	pages := content.Paginate(lesson.Textbook, textbookPageLimit)
	if len(pages) == 0 {
		return b.send(ctx, chatID, msgEmptyTextbook, nil)
	}

	for i, page := range pages {
		var text string
		if len(pages) > 1 {
			text = fmt.Sprintf("📖 %s (%d/%d)\n\n%s", lesson.Title, i+1, len(pages), page)
		} else {
			text = fmt.Sprintf("📖 %s\n\n%s", lesson.Title, page)
		}

		if err := b.send(ctx, chatID, text, nil); err != nil {
			return err
		}
	}

	return nil
}

func (b *Bot) showPodcasts(ctx context.Context, chatID int64) error {
	if len(b.catalog.Podcasts) == 0 {
		return b.send(ctx, chatID, msgNoPodcasts, nil)
	}

	for _, ep := range b.catalog.Podcasts {
		text := fmt.Sprintf("🎧 %s", ep.Title)
		if ep.Duration != "" {
			text += fmt.Sprintf(" (%s)", ep.Duration)
		}
		text += "\n\n" + ep.Summary

		keyboard := &client.InlineKeyboardMarkup{InlineKeyboard: [][]client.InlineKeyboardButton{{
			{Text: btnPlay, CallbackData: "pod:play:" + ep.ID},
			{Text: btnScript, CallbackData: "pod:script:" + ep.ID},
		}}}

		if err := b.send(ctx, chatID, text, keyboard); err != nil {
			return err
		}
	}

	return nil
}

func (b *Bot) showScript(ctx context.Context, chatID int64, id string) error {
	ep, ok := b.catalog.Episode(id)
	if !ok {
		return b.send(ctx, chatID, msgUnknownEpisode, nil)
	}

	script := strings.TrimSpace(ep.Transcript)
	if script == "" {
		script = ep.Summary
	}

	return b.send(ctx, chatID, fmt.Sprintf("📄 %s\n\n%s", ep.Title, script), nil)
}

// playEpisode запускает озвучку выпуска в фоне.
// Возвращает уведомление для callback.
func (b *Bot) playEpisode(ctx context.Context, chatID int64, id string) string {
	ep, ok := b.catalog.Episode(id)
	if !ok {
		return msgUnknownEpisode
	}

	status, err := b.sender.Message(ctx, chatID, msgNarrationStarted, nil)
	if err != nil {
		slog.Error("failed to send narration status", "chat_id", chatID, "err", err)
	}

	b.narrations.Add(1)
	go func() {
		defer b.narrations.Done()
		b.narrate(ctx, chatID, ep, status)
	}()

	return ""
}

func (b *Bot) narrate(ctx context.Context, chatID int64, ep content.Episode, status *client.Message) {
	narrateCtx, cancel := context.WithTimeout(ctx, narrationTimeout)
	defer cancel()

	data, err := b.narrator.NarrateWAV(narrateCtx, ep)

	if status != nil {
		if delErr := b.sender.Delete(ctx, chatID, status.MessageID); delErr != nil {
			slog.Debug("failed to delete narration status", "chat_id", chatID, "err", delErr)
		}
	}

	if err != nil {
		slog.Warn("narration failed", "episode", ep.ID, "err", err)

		notice := msgAudioUnavailable
		if errors.Is(err, podcast.ErrBusy) {
			notice = msgNarrationBusy
		}

		if _, sendErr := b.sender.Message(ctx, chatID, notice, nil); sendErr != nil {
			slog.Error("failed to send narration notice", "chat_id", chatID, "err", sendErr)
		}
		return
	}

	err = b.sender.Document(ctx, chatID, ep.ID+".wav", ep.Title, data)
	if err != nil {
		slog.Error("failed to send narration", "chat_id", chatID, "episode", ep.ID, "err", err)
		return
	}

	slog.Info("narration sent", "chat_id", chatID, "episode", ep.ID, "bytes", len(data))
}

func lessonURL(l content.Lesson) string {
	if l.WatchURL != "" {
		return l.WatchURL
	}

	return l.VideoURL
}
