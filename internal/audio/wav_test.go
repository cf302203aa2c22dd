package audio

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWAV_Header(t *testing.T) {
	buf, err := Decode(encodePCM(1, 2, 3, 4), 24000, 2)
	require.NoError(t, err)

	data, err := WAV(buf)
	require.NoError(t, err)
	require.Len(t, data, wavHeaderSize+8)

	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "data", string(data[36:40]))
	assert.Equal(t, uint32(36+8), binary.LittleEndian.Uint32(data[4:]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(data[22:]))
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(data[24:]))
	assert.Equal(t, uint32(24000*4), binary.LittleEndian.Uint32(data[28:]))
	assert.Equal(t, uint32(8), binary.LittleEndian.Uint32(data[40:]))
}

func TestWAV_RoundTrip(t *testing.T) {
	samples := []int16{0, -32768, 32767, 1, -1, 12345}

	buf, err := Decode(encodePCM(samples...), 24000, 1)
	require.NoError(t, err)

	data, err := WAV(buf)
	require.NoError(t, err)

	// данные после заголовка совпадают с исходным PCM
	for i, s := range samples {
		got := int16(binary.LittleEndian.Uint16(data[wavHeaderSize+i*BytesPerSample:]))
		assert.Equal(t, s, got)
	}
}

func TestWAV_Clamp(t *testing.T) {
	assert.Equal(t, int16(32767), toInt16(1.5))
	assert.Equal(t, int16(32767), toInt16(1.0))
	assert.Equal(t, int16(-32768), toInt16(-2))
}

func TestWAV_InvalidBuffer(t *testing.T) {
	_, err := WAV(nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = WAV(&Buffer{SampleRate: 24000, ChannelCount: 2, Channels: [][]float32{{0}}})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = WAV(&Buffer{SampleRate: 24000, ChannelCount: 2, Channels: [][]float32{{0}, {0, 1}}})
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestSeekBuffer(t *testing.T) {
	b := &seekBuffer{}

	_, err := b.Write([]byte("abcdef"))
	require.NoError(t, err)

	pos, err := b.Seek(2, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos)

	_, err = b.Write([]byte("XY"))
	require.NoError(t, err)

	pos, err = b.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	_, err = b.Write([]byte("g"))
	require.NoError(t, err)
	assert.Equal(t, "abXYefg", string(b.data))

	_, err = b.Seek(-1, io.SeekStart)
	assert.Error(t, err)
}
