// Package speech sends downloaded audio to an external speech-recognition
// service and normalizes the structured result into transcript segments.
package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"yt-scribe/errors"
)

const defaultBaseURL = "https://api.deepgram.com"

type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (*RecognitionResult, error)
}

type DeepgramTranscriber struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *logrus.Logger
}

func NewTranscriber(apiKey string) *DeepgramTranscriber {
	return &DeepgramTranscriber{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   "nova-2",
		client:  &http.Client{Timeout: 10 * time.Minute},
		logger:  logrus.StandardLogger(),
	}
}

// Transcribe streams the audio to the recognition endpoint. The credential
// is checked here, at point of first use, not at startup.
func (t *DeepgramTranscriber) Transcribe(ctx context.Context, audio io.Reader) (*RecognitionResult, error) {
	const op = "DeepgramTranscriber.Transcribe"

	if t.apiKey == "" {
		return nil, errors.Configuration(op, nil, "Speech recognition API key is not configured")
	}

	url := fmt.Sprintf(
		"%s/v1/listen?model=%s&punctuate=true&paragraphs=true&smart_format=true",
		t.baseURL, t.model,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, audio)
	if err != nil {
		return nil, errors.TranscriptionFailed(op, err, "Failed to build recognition request")
	}
	req.Header.Set("Authorization", "Token "+t.apiKey)
	req.Header.Set("Content-Type", "audio/webm")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, errors.TranscriptionFailed(op, err, "Recognition request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		t.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("Recognition service returned an error")
		return nil, errors.TranscriptionFailed(op,
			fmt.Errorf("status %d: %s", resp.StatusCode, body),
			"Recognition service returned an error")
	}

	var result RecognitionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.TranscriptionFailed(op, err, "Failed to decode recognition result")
	}

	return &result, nil
}
