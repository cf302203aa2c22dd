package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavHeaderSize = 44
	wavPCMFormat  = 1
)

// EncodeWAV записывает буфер в ws как 16-битный PCM WAV.
func EncodeWAV(ws io.WriteSeeker, buf *Buffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidFormat)
	}

	format := Format{SampleRate: buf.SampleRate, Channels: buf.ChannelCount}
	if err := format.Validate(); err != nil {
		return err
	}

	if len(buf.Channels) != buf.ChannelCount {
		return fmt.Errorf("%w: %d channels declared, %d present", ErrInvalidFormat, buf.ChannelCount, len(buf.Channels))
	}

	frames := buf.Frames()
	for c, ch := range buf.Channels {
		if len(ch) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, want %d", ErrInvalidFormat, c, len(ch), frames)
		}
	}

	samples := make([]int, 0, frames*buf.ChannelCount)
	for i := 0; i < frames; i++ {
		for c := 0; c < buf.ChannelCount; c++ {
			samples = append(samples, int(toInt16(buf.Channels[c][i])))
		}
	}

	encoder := wav.NewEncoder(ws, buf.SampleRate, 8*BytesPerSample, buf.ChannelCount, wavPCMFormat)

	err := encoder.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: buf.ChannelCount, SampleRate: buf.SampleRate},
		Data:           samples,
		SourceBitDepth: 8 * BytesPerSample,
	})
	if err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}

	if err = encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav: %w", err)
	}

	return nil
}

// WAV возвращает буфер в виде WAV файла.
func WAV(buf *Buffer) ([]byte, error) {
	out := &seekBuffer{}
	if err := EncodeWAV(out, buf); err != nil {
		return nil, err
	}

	return out.data, nil
}

// seekBuffer реализует io.WriteSeeker в памяти.
// Кодировщик WAV дописывает размеры в заголовок после данных.
type seekBuffer struct {
	data []byte
	pos  int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if end := b.pos + len(p); end > len(b.data) {
		b.data = append(b.data, make([]byte, end-len(b.data))...)
	}

	n := copy(b.data[b.pos:], p)
	b.pos += n

	return n, nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64

	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(b.pos) + offset
	case io.SeekEnd:
		pos = int64(len(b.data)) + offset
	default:
		return 0, errors.New("invalid whence")
	}

	if pos < 0 {
		return 0, errors.New("negative position")
	}

	b.pos = int(pos)

	return pos, nil
}

// toInt16 обратна нормализации в DecodePCM.
func toInt16(v float32) int16 {
	s := math.Round(float64(v) * 32768.0)

	switch {
	case s > math.MaxInt16:
		return math.MaxInt16
	case s < math.MinInt16:
		return math.MinInt16
	default:
		return int16(s)
	}
}
