// Package audio декодирует PCM, полученный от синтеза речи, в планарный буфер
// и кодирует его обратно в WAV для отправки пользователю.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// BytesPerSample задаёт размер одного 16-битного сэмпла.
const BytesPerSample = 2

// Ошибки декодирования.
var (
	ErrInvalidEncoding       = errors.New("invalid base64 encoding")
	ErrMalformedAudioPayload = errors.New("malformed audio payload")
	ErrInvalidFormat         = errors.New("invalid audio format")
)

// Format описывает формат PCM.
type Format struct {
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`
}

// DefaultFormat описывает ответ модели синтеза речи: 24 кГц, моно.
func DefaultFormat() Format {
	return Format{SampleRate: 24000, Channels: 1}
}

// Validate проверяет формат.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, f.SampleRate)
	}

	if f.Channels <= 0 {
		return fmt.Errorf("%w: channel count %d", ErrInvalidFormat, f.Channels)
	}

	return nil
}

// Buffer хранит сэмплы планарно: у каждого канала свой срез сэмплов одинаковой длины.
type Buffer struct {
	SampleRate   int
	ChannelCount int
	Channels     [][]float32
}

// Frames возвращает количество кадров.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}

	return len(b.Channels[0])
}

// Duration возвращает длительность звучания.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}

	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Decode декодирует base64 строку с чередующимися 16-битными little-endian сэмплами.
// Сэмпл делится на 32768, поэтому -32768 даёт ровно -1.0, а 32767 чуть меньше 1.0.
func Decode(payload string, sampleRate, channelCount int) (*Buffer, error) {
	format := Format{SampleRate: sampleRate, Channels: channelCount}
	if err := format.Validate(); err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}

	return DecodePCM(raw, format)
}

// DecodePCM раскладывает сырые байты PCM по каналам.
func DecodePCM(raw []byte, format Format) (*Buffer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	frameSize := BytesPerSample * format.Channels
	if len(raw)%frameSize != 0 {
		return nil, fmt.Errorf(
			"%w: %d bytes is not a multiple of frame size %d",
			ErrMalformedAudioPayload,
			len(raw),
			frameSize,
		)
	}

	frameCount := len(raw) / frameSize

	channels := make([][]float32, format.Channels)
	for c := range channels {
		channels[c] = make([]float32, frameCount)
	}

	for i := 0; i < frameCount; i++ {
		for c := 0; c < format.Channels; c++ {
			offset := (i*format.Channels + c) * BytesPerSample
			sample := int16(binary.LittleEndian.Uint16(raw[offset:]))
			channels[c][i] = float32(sample) / 32768.0
		}
	}

	return &Buffer{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Channels:     channels,
	}, nil
}
