// Package summarize generates AI summaries and study notes from transcript
// text.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"yt-scribe/errors"
)

// NoSpeechMessage is returned instead of invoking the LLM when the
// transcript contains no usable text.
const NoSpeechMessage = "No speech was detected in this video."

type Generator interface {
	// Summary produces a short digest of the transcript text.
	Summary(ctx context.Context, transcript string) (string, error)

	// Notes produces long structured study notes. Results are never
	// cached by this service; persistence is the caller's concern.
	Notes(ctx context.Context, transcript string) (string, error)
}

type Service struct {
	apiKey string
	model  string
	logger *logrus.Logger

	// generate invokes the LLM; replaceable in tests.
	generate func(ctx context.Context, prompt string) (string, error)

	mu     sync.Mutex
	client *genai.Client
}

func NewService(apiKey, model string) *Service {
	s := &Service{
		apiKey: apiKey,
		model:  model,
		logger: logrus.StandardLogger(),
	}
	s.generate = s.generateWithGemini
	return s
}

var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
}

func (s *Service) Summary(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return NoSpeechMessage, nil
	}
	return s.generate(ctx, fmt.Sprintf(summaryPrompt, transcript))
}

func (s *Service) Notes(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return NoSpeechMessage, nil
	}
	return s.generate(ctx, fmt.Sprintf(notesPrompt, transcript))
}

// geminiClient builds the client lazily so a missing credential fails at
// the point of first use instead of at startup.
func (s *Service) geminiClient(ctx context.Context) (*genai.Client, error) {
	const op = "SummarizeService.geminiClient"

	if s.apiKey == "" {
		return nil, errors.Configuration(op, nil, "LLM API key is not configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: s.apiKey})
	if err != nil {
		return nil, errors.Configuration(op, err, "Failed to configure LLM client")
	}

	s.client = client
	return client, nil
}

func (s *Service) generateWithGemini(ctx context.Context, prompt string) (string, error) {
	const op = "SummarizeService.generate"

	client, err := s.geminiClient(ctx)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}

	result, err := client.Models.GenerateContent(ctx, s.model, contents, &genai.GenerateContentConfig{
		SafetySettings: safetySettings,
	})
	if err != nil {
		return "", errors.Internal(op, err, "LLM generation failed")
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.Internal(op, nil, "LLM returned an empty response")
	}

	s.logger.WithField("chars", len(text)).Debug("Generated text")
	return text, nil
}
