// Package captions fetches publicly available caption tracks for a video.
// This is the first acquisition tier; failure here is expected and triggers
// the audio+speech fallback, so every failure maps to ErrNoCaptions.
package captions

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"yt-scribe/models"
	"yt-scribe/youtube"
)

// ErrNoCaptions reports that no usable caption track could be retrieved.
var ErrNoCaptions = stderrors.New("no captions available")

type Scraper interface {
	Fetch(ctx context.Context, videoID string) ([]models.Segment, error)
}

type HTTPScraper struct {
	client *http.Client

	// watchURL builds the page URL for a video ID; replaceable in tests.
	watchURL func(videoID string) string
}

func NewScraper(client *http.Client) *HTTPScraper {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPScraper{
		client:   client,
		watchURL: youtube.WatchURL,
	}
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// json3 caption feed, offsets already in milliseconds.
type captionEvents struct {
	Events []struct {
		StartMs    int64 `json:"tStartMs"`
		DurationMs int64 `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func (s *HTTPScraper) Fetch(ctx context.Context, videoID string) ([]models.Segment, error) {
	page, err := s.get(ctx, s.watchURL(videoID))
	if err != nil {
		return nil, errors.Wrap(ErrNoCaptions, err.Error())
	}

	tracks, err := extractTracks(page)
	if err != nil {
		return nil, err
	}

	track := pickTrack(tracks)
	body, err := s.get(ctx, track.BaseURL+"&fmt=json3")
	if err != nil {
		return nil, errors.Wrap(ErrNoCaptions, err.Error())
	}

	segments, err := parseEvents(body)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, errors.Wrap(ErrNoCaptions, "caption track is empty")
	}

	return segments, nil
}

func (s *HTTPScraper) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
}

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// extractTracks pulls the captionTracks JSON array out of the watch page.
func extractTracks(page []byte) ([]captionTrack, error) {
	const marker = `"captionTracks":`

	idx := strings.Index(string(page), marker)
	if idx == -1 {
		return nil, errors.Wrap(ErrNoCaptions, "no caption tracks on watch page")
	}

	var tracks []captionTrack
	dec := json.NewDecoder(strings.NewReader(string(page[idx+len(marker):])))
	if err := dec.Decode(&tracks); err != nil {
		return nil, errors.Wrap(ErrNoCaptions, "failed to parse caption tracks")
	}
	if len(tracks) == 0 {
		return nil, errors.Wrap(ErrNoCaptions, "caption track list is empty")
	}

	return tracks, nil
}

// pickTrack prefers manual English captions over auto-generated ones, then
// falls back to whatever track is first.
func pickTrack(tracks []captionTrack) captionTrack {
	var autoEnglish *captionTrack
	for i, track := range tracks {
		if !strings.HasPrefix(track.LanguageCode, "en") {
			continue
		}
		if track.Kind != "asr" {
			return track
		}
		if autoEnglish == nil {
			autoEnglish = &tracks[i]
		}
	}
	if autoEnglish != nil {
		return *autoEnglish
	}
	return tracks[0]
}

func parseEvents(body []byte) ([]models.Segment, error) {
	var events captionEvents
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, errors.Wrap(ErrNoCaptions, "failed to parse caption events")
	}

	segments := make([]models.Segment, 0, len(events.Events))
	for _, event := range events.Events {
		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.Join(strings.Fields(sb.String()), " ")
		if text == "" {
			continue
		}
		segments = append(segments, models.Segment{
			Text:       text,
			OffsetMs:   event.StartMs,
			DurationMs: event.DurationMs,
		})
	}

	return segments, nil
}
