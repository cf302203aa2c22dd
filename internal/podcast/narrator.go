// Package podcast озвучивает выпуски подкаста по запросу.
package podcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/letsssgooo/shepherdBot/internal/audio"
	"github.com/letsssgooo/shepherdBot/internal/content"
	"github.com/letsssgooo/shepherdBot/internal/gemini"
)

// transcriptExcerpt ограничивает число символов стенограммы в озвучке.
const transcriptExcerpt = 300

// Ошибки озвучки.
var (
	ErrBusy    = errors.New("episode narration is already in progress")
	ErrNoAudio = gemini.ErrNoAudio
)

// Synthesizer озвучивает текст.
type Synthesizer interface {
	SynthesizeSpeech(ctx context.Context, text, voice string) (string, error)
}

// Narrator озвучивает выпуски и декодирует полученный PCM.
type Narrator struct {
	synth    Synthesizer
	voice    string
	format   audio.Format
	inFlight map[string]struct{}
	mu       sync.Mutex
}

// NewNarrator создаёт новый Narrator.
func NewNarrator(synth Synthesizer, voice string, format audio.Format) *Narrator {
	return &Narrator{
		synth:    synth,
		voice:    voice,
		format:   format,
		inFlight: make(map[string]struct{}),
	}
}

// Narrate озвучивает выпуск и возвращает декодированный буфер.
// Одновременно для одного выпуска выполняется только одна озвучка.
func (n *Narrator) Narrate(ctx context.Context, episode content.Episode) (*audio.Buffer, error) {
	if !n.acquire(episode.ID) {
		return nil, ErrBusy
	}
	defer n.release(episode.ID)

	payload, err := n.synth.SynthesizeSpeech(ctx, Script(episode), n.voice)
	if err != nil {
		if errors.Is(err, ErrNoAudio) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrNoAudio, err)
	}

	if payload == "" {
		return nil, ErrNoAudio
	}

	buf, err := audio.Decode(payload, n.format.SampleRate, n.format.Channels)
	if err != nil {
		return nil, fmt.Errorf("decode narration of %s: %w", episode.ID, err)
	}

	slog.Debug("episode narrated",
		"episode", episode.ID,
		"frames", buf.Frames(),
		"duration", buf.Duration(),
	)

	return buf, nil
}

// NarrateWAV озвучивает выпуск и возвращает WAV файл.
func (n *Narrator) NarrateWAV(ctx context.Context, episode content.Episode) ([]byte, error) {
	buf, err := n.Narrate(ctx, episode)
	if err != nil {
		return nil, err
	}

	return audio.WAV(buf)
}

// Busy сообщает, озвучивается ли выпуск сейчас.
func (n *Narrator) Busy(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, ok := n.inFlight[id]
	return ok
}

func (n *Narrator) acquire(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.inFlight[id]; ok {
		return false
	}
	n.inFlight[id] = struct{}{}

	return true
}

func (n *Narrator) release(id string) {
	n.mu.Lock()
	delete(n.inFlight, id)
	n.mu.Unlock()
}

// Script возвращает текст для озвучки выпуска.
func Script(episode content.Episode) string {
	transcript := []rune(episode.Transcript)
	if len(transcript) > transcriptExcerpt {
		transcript = transcript[:transcriptExcerpt]
	}

	return fmt.Sprintf("읽어주세요: %s. 주요 내용: %s", episode.Summary, string(transcript))
}
