package captions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const captionBody = `{
	"events": [
		{"tStartMs": 0, "dDurationMs": 2000, "segs": [{"utf8": "Hello "}, {"utf8": "world"}]},
		{"tStartMs": 2000, "dDurationMs": 1500, "segs": [{"utf8": "\n"}]},
		{"tStartMs": 3500, "dDurationMs": 2500, "segs": [{"utf8": "Bye now"}]}
	]
}`

func newTestScraper(t *testing.T, watchPage func(w http.ResponseWriter)) (*HTTPScraper, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		watchPage(w)
	})
	mux.HandleFunc("/api/timedtext", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, captionBody)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	scraper := NewScraper(server.Client())
	scraper.watchURL = func(videoID string) string {
		return server.URL + "/watch?v=" + videoID
	}
	return scraper, server
}

func watchPageWithTracks(serverURL string) string {
	return fmt.Sprintf(
		`<html>ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"%s/api/timedtext?lang=en","languageCode":"en","kind":"asr"},{"baseUrl":"%s/api/timedtext?lang=en-manual","languageCode":"en"}]}}}</html>`,
		serverURL, serverURL,
	)
}

func TestFetchSegments(t *testing.T) {
	var server *httptest.Server
	scraper, server := newTestScraper(t, func(w http.ResponseWriter) {
		fmt.Fprint(w, watchPageWithTracks(server.URL))
	})

	segments, err := scraper.Fetch(context.Background(), "abcdefghijk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments (whitespace-only event dropped), got %d", len(segments))
	}

	if segments[0].Text != "Hello world" {
		t.Errorf("expected first segment 'Hello world', got %q", segments[0].Text)
	}
	if segments[0].OffsetMs != 0 || segments[0].DurationMs != 2000 {
		t.Errorf("unexpected first segment timing: %+v", segments[0])
	}
	if segments[1].Text != "Bye now" {
		t.Errorf("expected second segment 'Bye now', got %q", segments[1].Text)
	}
	if segments[1].OffsetMs != 3500 {
		t.Errorf("expected second segment offset 3500, got %d", segments[1].OffsetMs)
	}
}

func TestFetchNoTracks(t *testing.T) {
	scraper, _ := newTestScraper(t, func(w http.ResponseWriter) {
		fmt.Fprint(w, `<html>no captions here</html>`)
	})

	_, err := scraper.Fetch(context.Background(), "abcdefghijk")
	if !errors.Is(err, ErrNoCaptions) {
		t.Errorf("expected ErrNoCaptions, got %v", err)
	}
}

func TestFetchWatchPageError(t *testing.T) {
	scraper, _ := newTestScraper(t, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := scraper.Fetch(context.Background(), "abcdefghijk")
	if !errors.Is(err, ErrNoCaptions) {
		t.Errorf("expected ErrNoCaptions, got %v", err)
	}
}

func TestPickTrackPrefersManualEnglish(t *testing.T) {
	tracks := []captionTrack{
		{BaseURL: "auto", LanguageCode: "en", Kind: "asr"},
		{BaseURL: "manual", LanguageCode: "en"},
		{BaseURL: "other", LanguageCode: "de"},
	}

	if got := pickTrack(tracks); got.BaseURL != "manual" {
		t.Errorf("expected manual English track, got %q", got.BaseURL)
	}
}

func TestPickTrackFallsBackToAuto(t *testing.T) {
	tracks := []captionTrack{
		{BaseURL: "other", LanguageCode: "de"},
		{BaseURL: "auto", LanguageCode: "en-US", Kind: "asr"},
	}

	if got := pickTrack(tracks); got.BaseURL != "auto" {
		t.Errorf("expected auto English track, got %q", got.BaseURL)
	}
}

func TestPickTrackFallsBackToFirst(t *testing.T) {
	tracks := []captionTrack{
		{BaseURL: "first", LanguageCode: "de"},
		{BaseURL: "second", LanguageCode: "fr"},
	}

	if got := pickTrack(tracks); got.BaseURL != "first" {
		t.Errorf("expected first track, got %q", got.BaseURL)
	}
}
