// Package elevenlabs implements ports.SpeechClient using the ElevenLabs
// speech-to-text and text-to-speech REST APIs.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/aptradar/aptradar/internal/core/domain"
	"github.com/aptradar/aptradar/internal/pkg/httpc"
	"github.com/aptradar/aptradar/internal/pkg/metrics"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// Client calls the ElevenLabs API with a fixed voice.
type Client struct {
	apiKey  string
	voiceID string
	hc      *httpc.Client
	baseURL string
}

// New creates a speech client. Missing credentials surface per call.
func New(apiKey, voiceID string, hc *httpc.Client) *Client {
	return &Client{
		apiKey:  apiKey,
		voiceID: voiceID,
		hc:      hc,
		baseURL: defaultBaseURL,
	}
}

// WithBaseURL overrides the API root, for tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Configured reports whether an API key and voice are present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.voiceID != ""
}

// Transcribe sends audio to the speech-to-text endpoint and returns the
// trimmed transcript.
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	if c.apiKey == "" {
		return "", &domain.UpstreamError{Op: "speech-to-text", Msg: "missing ElevenLabs API key"}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/speech-to-text", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	metrics.UpstreamRequests.WithLabelValues("elevenlabs", "speech-to-text").Inc()
	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("elevenlabs", "speech-to-text").Inc()
		return "", &domain.UpstreamError{Op: "speech-to-text", Msg: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamErrors.WithLabelValues("elevenlabs", "speech-to-text").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return "", &domain.UpstreamError{Op: "speech-to-text", Status: resp.StatusCode, Msg: string(snippet)}
	}

	var out struct {
		Text string `json:"text"`
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", &domain.UpstreamError{Op: "speech-to-text", Msg: "decode response: " + err.Error()}
		}
	}
	return strings.TrimSpace(out.Text), nil
}

// Synthesize converts text to MP3 audio with the configured voice.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if c.apiKey == "" || c.voiceID == "" {
		return nil, &domain.UpstreamError{Op: "text-to-speech", Msg: "missing ElevenLabs API key or voice ID"}
	}

	body, err := json.Marshal(map[string]any{
		"text": text,
		"voice_settings": map[string]float64{
			"stability":        0.5,
			"similarity_boost": 0.5,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tts body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/text-to-speech/"+c.voiceID, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	metrics.UpstreamRequests.WithLabelValues("elevenlabs", "text-to-speech").Inc()
	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("elevenlabs", "text-to-speech").Inc()
		return nil, &domain.UpstreamError{Op: "text-to-speech", Msg: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamErrors.WithLabelValues("elevenlabs", "text-to-speech").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, &domain.UpstreamError{Op: "text-to-speech", Status: resp.StatusCode, Msg: string(snippet)}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "text-to-speech", Msg: "read audio: " + err.Error()}
	}
	return audio, nil
}
