package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GenAIClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewGenAIClient(context.Background(), Options{
		APIKey:      "secret",
		BaseURL:     server.URL + "/",
		TextModel:   "text-model",
		SpeechModel: "tts-model",
		Timeout:     time.Second,
	})
	require.NoError(t, err)

	return client
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	var req map[string]any
	assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

	return req
}

func TestSynthesizeSpeech(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/tts-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		req := decodeBody(t, r)

		config := req["generationConfig"].(map[string]any)
		assert.Equal(t, []any{"AUDIO"}, config["responseModalities"])

		voice := config["speechConfig"].(map[string]any)["voiceConfig"].(map[string]any)["prebuiltVoiceConfig"].(map[string]any)
		assert.Equal(t, "Kore", voice["voiceName"])

		contents := req["contents"].([]any)
		parts := contents[0].(map[string]any)["parts"].([]any)
		assert.Equal(t, "hello", parts[0].(map[string]any)["text"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"audio/L16;rate=24000","data":"AAAA"}}]}}]}`))
	})

	data, err := client.SynthesizeSpeech(context.Background(), "hello", "Kore")
	require.NoError(t, err)
	assert.Equal(t, "AAAA", data)
}

func TestSynthesizeSpeech_NoAudio(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`))
	})

	_, err := client.SynthesizeSpeech(context.Background(), "hello", "Kore")
	assert.ErrorIs(t, err, ErrNoAudio)
}

func TestGenerateText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/text-model:generateContent", r.URL.Path)

		req := decodeBody(t, r)

		config := req["generationConfig"].(map[string]any)
		assert.InDelta(t, 0.7, config["temperature"], 1e-6)
		assert.Nil(t, config["responseModalities"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"수고하셨습니다. "},{"text":"힘내세요."}]}}]}`))
	})

	text, err := client.GenerateText(context.Background(), "prompt", 0.7)
	require.NoError(t, err)
	assert.Equal(t, "수고하셨습니다. 힘내세요.", text)
}

func TestGenerateText_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.GenerateText(context.Background(), "prompt", 0.7)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestGenerate_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	})

	_, err := client.GenerateText(context.Background(), "prompt", 0.7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerate_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	})
	client.opts.Timeout = 50 * time.Millisecond

	_, err := client.GenerateText(context.Background(), "prompt", 0.7)
	assert.Error(t, err)
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.SynthesizeSpeech(context.Background(), "hello", "Kore")
	assert.ErrorIs(t, err, ErrNoAudio)

	_, err = Unavailable{}.GenerateText(context.Background(), "prompt", 0.7)
	assert.ErrorIs(t, err, ErrNoText)
}
