package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/letsssgooo/shepherdBot/internal/api"
	"github.com/letsssgooo/shepherdBot/internal/bot"
	"github.com/letsssgooo/shepherdBot/internal/client"
	"github.com/letsssgooo/shepherdBot/internal/coach"
	"github.com/letsssgooo/shepherdBot/internal/config"
	"github.com/letsssgooo/shepherdBot/internal/content"
	"github.com/letsssgooo/shepherdBot/internal/events/fetcher"
	"github.com/letsssgooo/shepherdBot/internal/events/sender"
	"github.com/letsssgooo/shepherdBot/internal/gemini"
	"github.com/letsssgooo/shepherdBot/internal/lib/slogcustom"
	"github.com/letsssgooo/shepherdBot/internal/podcast"
	"github.com/letsssgooo/shepherdBot/internal/quiz"
	"github.com/letsssgooo/shepherdBot/internal/storage"
	"github.com/letsssgooo/shepherdBot/internal/storage/postgres"
)

const shutdownTimeout = 10 * time.Second

func main() {
	flagConfig := pflag.StringP("config", "c", "", "path to YAML config file")
	flagToken := pflag.String("token", "", "token of telegram bot")
	flagBotUsername := pflag.String("bot-username", "", "username of the telegram bot")
	flagAddr := pflag.String("addr", "", "address of the report HTTP API")
	flagContent := pflag.String("content", "", "path to YAML or JSON course content")
	flagDSN := pflag.String("dsn", "", "postgres DSN, in-memory storage when empty")
	flagLogLevel := pflag.String("log-level", "", "log level: debug, info, warn, error")
	pflag.Parse()

	var level slog.LevelVar
	slog.SetDefault(setupLogger(&level))

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	override := func(flag string, value string, dst *string) {
		if pflag.CommandLine.Changed(flag) {
			*dst = value
		}
	}
	override("token", *flagToken, &cfg.Telegram.Token)
	override("bot-username", *flagBotUsername, &cfg.Telegram.BotUsername)
	override("addr", *flagAddr, &cfg.HTTP.Addr)
	override("content", *flagContent, &cfg.ContentPath)
	override("dsn", *flagDSN, &cfg.Storage.DSN)
	override("log-level", *flagLogLevel, &cfg.LogLevel)

	logLevel, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		slog.Error("invalid log level", "err", err)
		os.Exit(1)
	}
	level.Set(logLevel)

	slog.Info("starting shepherd bot...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("shepherd bot stopped with error", "err", err)
		os.Exit(1)
	}

	slog.Info("shepherd bot stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	catalog, err := content.Load(cfg.ContentPath)
	if err != nil {
		return err
	}

	st, closeStorage, err := openStorage(ctx, cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer closeStorage()

	ai, err := newGeminiClient(ctx, cfg.Gemini)
	if err != nil {
		return err
	}

	var generator coach.TextGenerator
	if cfg.Gemini.APIKey != "" {
		generator = ai
	}

	insights := coach.New(generator, cfg.Insight.Fallback, cfg.Insight.Temperature)
	narrator := podcast.NewNarrator(ai, cfg.Gemini.Voice, cfg.Audio)
	engine := quiz.NewEngine(cfg.Grades)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.NewHandler(st, catalog, narrator, cfg.HTTP.Token).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("report api listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("report api: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if cfg.Telegram.Token == "" {
		slog.Warn("telegram token is not set, running report api only")
	} else {
		tg := client.NewHTTPClient(cfg.Telegram.Token, "")

		if err := tg.SetCommands(ctx, bot.Commands()); err != nil {
			slog.Warn("failed to register bot commands", "err", err)
		}

		b := bot.NewBot(bot.Deps{
			Fetcher:     fetcher.NewTelegramFetcher(tg),
			Sender:      sender.NewSender(tg),
			Engine:      engine,
			Catalog:     catalog,
			Coach:       insights,
			Narrator:    narrator,
			Storage:     st,
			Topic:       cfg.Insight.Topic,
			PollTimeout: cfg.Telegram.PollTimeout,
		})

		if cfg.Telegram.BotUsername != "" {
			slog.Info("bot link", "url", "https://t.me/"+cfg.Telegram.BotUsername)
		}

		g.Go(func() error {
			return b.Run(gctx)
		})
	}

	return g.Wait()
}

func openStorage(ctx context.Context, dsn string) (storage.Storage, func(), error) {
	if dsn == "" {
		slog.Info("using in-memory storage")
		return storage.NewMemoryStorage(), func() {}, nil
	}

	pg, err := postgres.NewStorage(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}

	slog.Info("using postgres storage")

	return pg, pg.Close, nil
}

func setupLogger(level *slog.LevelVar) *slog.Logger {
	return slog.New(slogcustom.NewCustomHandler(os.Stdout, level))
}

// newGeminiClient создаёт клиента Gemini. Без ключа API напутствия
// берутся из запасного текста, а озвучка недоступна.
func newGeminiClient(ctx context.Context, cfg config.GeminiConfig) (gemini.Client, error) {
	if cfg.APIKey == "" {
		slog.Warn("gemini api key is not set, insights fall back and narration is unavailable")
		return gemini.Unavailable{}, nil
	}

	return gemini.NewGenAIClient(ctx, gemini.Options{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		TextModel:   cfg.TextModel,
		SpeechModel: cfg.SpeechModel,
		Timeout:     cfg.Timeout,
	})
}
